// Package conversation provides an append-only, role-tagged message log: the
// transcript collaborator consumed by artifact updates.
//
// The artifact never reads arbitrary history; callers pass an explicit window
// of recent messages (typically Tail) into each update call, and append the
// returned audit messages back onto the log. Entries are never mutated or
// removed once appended.
package conversation
