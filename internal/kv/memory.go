package kv

import (
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store with quota enforcement. It is the test
// double for the SQLite store and behaves identically at the interface.
type MemoryStore struct {
	mu    sync.Mutex
	data  map[string]string
	quota int64
	used  int64
}

// NewMemoryStore creates a MemoryStore with the given byte quota.
// quota <= 0 means unlimited.
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]string),
		quota: quota,
	}
}

// Get returns the value for key and whether it exists.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	return v, ok, nil
}

// Set writes value under key, enforcing the byte quota.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.used + entrySize(key, value)
	if old, ok := s.data[key]; ok {
		next -= entrySize(key, old)
	}
	if s.quota > 0 && next > s.quota {
		return ErrQuotaExceeded
	}

	s.data[key] = value
	s.used = next
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.data[key]; ok {
		s.used -= entrySize(key, old)
		delete(s.data, key)
	}
	return nil
}

// Keys returns all keys with the given prefix.
func (s *MemoryStore) Keys(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
