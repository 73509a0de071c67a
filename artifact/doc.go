// Package artifact implements the schema-validated working-memory record a
// conversational agent fills in field by field, and the update protocol at
// its core: validate a candidate value against the schema, and on rejection
// drive a bounded self-correction loop through a repair collaborator before
// giving up and resetting the field to Unanswered.
//
// An Artifact is owned by a single logical writer. Update is its only
// mutator; concurrent Update calls against the same instance are undefined
// and must be serialized by the caller. The only suspension point of an
// update is the repair collaborator call; validation, commit and message
// construction are synchronous.
//
// The package also provides core.ArtifactStore backends for snapshot
// persistence (in-memory here, durable stores in subpackages). Callers should
// depend on the core interface rather than concrete store types.
package artifact
