// Package memory provides an in-process key/value store for tests and
// throwaway runs. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"alevatex/internal/ports"
)

var _ ports.KeyValueStore = (*Store)(nil)

type Store struct {
	mu   sync.RWMutex
	data map[string][]byte

	// PutErr, when set, is returned by every Put. Lets tests simulate quota failures.
	PutErr error
}

func New() *Store { return &Store{data: make(map[string][]byte)} }

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}
