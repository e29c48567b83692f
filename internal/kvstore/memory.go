package kvstore

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store used in tests and for throwaway runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore constructs an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get returns the value for key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	s.mu.RLock()
	value, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Put stores value under key.
func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	_ = ctx
	if key == "" {
		return ErrEmptyKey
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.mu.Lock()
	s.data[key] = stored
	s.mu.Unlock()
	return nil
}

// Keys returns all keys with the given prefix.
func (s *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
