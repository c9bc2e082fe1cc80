package repository

import (
	"context"
	"sync"
)

// MemoryOptionStore keeps options in process memory. It is used when no
// database is configured.
type MemoryOptionStore struct {
	mu      sync.RWMutex
	options map[string][]byte
}

func NewMemoryOptionStore() *MemoryOptionStore {
	return &MemoryOptionStore{options: make(map[string][]byte)}
}

func (s *MemoryOptionStore) Get(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.options[name]
	if !ok {
		return nil, ErrOptionNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryOptionStore) Set(_ context.Context, name string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.options[name] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryOptionStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.options, name)
	return nil
}
