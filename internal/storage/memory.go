package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory BlobStore for tests. Set Fail to make every
// call return that error.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	Fail error
}

var _ BlobStore = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory blob store.
func NewMemory() *MemoryStore {
	return &MemoryStore{objects: map[string][]byte{}}
}

func (s *MemoryStore) Upload(_ context.Context, data []byte, path, _ string) (string, error) {
	if s.Fail != nil {
		return "", s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[path] = buf
	return "memblob://" + path, nil
}

func (s *MemoryStore) ResolveURL(_ context.Context, path string) (string, error) {
	if s.Fail != nil {
		return "", s.Fail
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok {
		return "", fmt.Errorf("no object at %s", path)
	}
	return "memblob://" + path, nil
}

// Object returns the stored bytes for path, if any.
func (s *MemoryStore) Object(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	return data, ok
}
