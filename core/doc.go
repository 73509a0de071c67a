// Package core holds the central data model and service contracts shared by
// every other package: conversation messages, the update result shape, the
// repair collaborator interface, artifact snapshot persistence and the
// completion call limiter.
//
// Keeping the canonical interfaces here avoids dependency cycles between the
// artifact state machine, repair implementations and storage backends, and
// lets callers depend on contracts rather than concrete types.
package core
