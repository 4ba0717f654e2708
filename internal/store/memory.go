package store

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"snapback/internal/backup"
)

// MemoryStore keeps artifacts in a map. It exists for tests and dry runs.
type MemoryStore struct {
	mu        sync.Mutex
	artifacts map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{artifacts: make(map[string][]byte)}
}

func (s *MemoryStore) Put(key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading artifact: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[key] = data
	return nil
}

func (s *MemoryStore) Exists(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.artifacts[key]
	return ok, nil
}

func (s *MemoryStore) Open(key string) (io.ReadCloser, error) {
	s.mu.Lock()
	data, ok := s.artifacts[key]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("artifact not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemoryStore) Validate() error { return nil }

// Delete removes an artifact. Test helper for simulating externally
// deleted destination files.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.artifacts, key)
}

// Len returns the number of stored artifacts.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.artifacts)
}

// Keys returns the stored artifact keys in unspecified order.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.artifacts))
	for k := range s.artifacts {
		keys = append(keys, k)
	}
	return keys
}

// Compile-time check that MemoryStore implements backup.Store
var _ backup.Store = (*MemoryStore)(nil)
