package artifact

import "sync"

// InMemoryStore is a trivial in-process snapshot store useful for tests,
// examples and single-process prototypes. Snapshots live in a nested map
// guarded by an RWMutex and are copied on save and retrieval so callers can
// never mutate internal buffers.
//
// Layout: sessionID -> artifactID -> snapshot bytes
//
// The store enforces no retention limits, quotas or eviction. Production
// deployments should prefer a durable implementation (object store or
// database) that survives process restarts.
type InMemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]map[string][]byte
}

// NewInMemoryStore returns an empty in-memory snapshot store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{snapshots: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) the snapshot bytes for the given session and
// artifact id. The input slice is copied before storage.
func (s *InMemoryStore) Save(sessionID, artifactID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.snapshots[sessionID]; !exists {
		s.snapshots[sessionID] = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.snapshots[sessionID][artifactID] = cp
	return nil
}

// Get returns a copy of the stored snapshot bytes or ErrNotFound.
func (s *InMemoryStore) Get(sessionID, artifactID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.snapshots[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := m[artifactID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns the artifact ids with snapshots for the session. The slice is
// a snapshot itself and safe for caller mutation.
func (s *InMemoryStore) List(sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.snapshots[sessionID]
	if !ok {
		return []string{}, nil
	}
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete removes the snapshot if present or returns ErrNotFound.
func (s *InMemoryStore) Delete(sessionID, artifactID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.snapshots[sessionID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[artifactID]; !ok {
		return ErrNotFound
	}
	delete(m, artifactID)
	return nil
}
