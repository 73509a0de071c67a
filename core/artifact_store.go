package core

// ArtifactStore persists artifact snapshots. Implementations should be
// thread-safe and scope snapshots by session identifier. Snapshots are opaque
// bytes to the store (the artifact package serializes state as JSON), so
// durable backends (object stores, databases) can be swapped in without
// touching calling code. Short method names (Save/Get/List/Delete) mirror
// other store interfaces for consistency.
type ArtifactStore interface {
	Save(sessionID, artifactID string, data []byte) error
	Get(sessionID, artifactID string) ([]byte, error)
	List(sessionID string) ([]string, error)
	Delete(sessionID, artifactID string) error
}
