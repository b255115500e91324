// Package cartmem is an in-process Blobs implementation used by tests and
// single-node runs that do not want a Redis dependency.
package cartmem

import (
	"context"
	"sync"

	"github.com/irsalhamdi/e-commerce-shop/storage"
)

type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (s *Store) Set(ctx context.Context, key string, blob []byte) error {
	cp := make([]byte, len(blob))
	copy(cp, blob)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = cp
	return nil
}

func (s *Store) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
