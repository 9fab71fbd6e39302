package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemStore keeps aggregate documents in memory. It round-trips values
// through JSON so it exercises the same encoding path as the FileStore;
// used by tests and the demo driver.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string][]byte

	// failNext makes the next Save fail, for crash-discipline tests.
	failNext bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[string][]byte)}
}

// Load decodes the aggregate document into v.
func (s *MemStore) Load(_ context.Context, aggregate string, v any) error {
	s.mu.RLock()
	raw, ok := s.docs[aggregate]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, aggregate)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrIO, aggregate, err)
	}
	return nil
}

// Save replaces the aggregate document with v.
func (s *MemStore) Save(_ context.Context, aggregate string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return fmt.Errorf("%w: injected failure for %s", ErrIO, aggregate)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrIO, aggregate, err)
	}
	s.docs[aggregate] = raw
	return nil
}

// FailNextSave makes the next Save return an error, leaving the stored
// document untouched.
func (s *MemStore) FailNextSave() {
	s.mu.Lock()
	s.failNext = true
	s.mu.Unlock()
}
