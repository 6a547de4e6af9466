package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps the snapshot in process memory only. Used for tests
// and ephemeral runs where persistence is not wanted.
type MemoryStore struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, nil
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}
