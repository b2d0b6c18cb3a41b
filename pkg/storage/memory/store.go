// Package memory provides an in-process storage.Store.
package memory

import (
	"context"
	"sync"

	"github.com/goliatone/go-signupform/pkg/storage"
)

// Store keeps blobs in a map guarded by a mutex.
type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{slots: make(map[string][]byte)}
}

// Get returns a copy of the blob stored at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.slots[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Set stores a copy of data at key.
func (s *Store) Set(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}
