package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/domain"
)

// MemoryStore is an in-memory DocumentStore for tests and local development.
// Set Fail to make every operation return that error wrapped in
// domain.ErrUnavailable, which is how store outages are simulated in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any

	Fail error
}

var _ DocumentStore = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{collections: map[string]map[string]map[string]any{}}
}

func (s *MemoryStore) failing() error {
	if s.Fail != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, s.Fail)
	}
	return nil
}

func (s *MemoryStore) Insert(_ context.Context, collection string, fields map[string]any) (string, error) {
	if err := s.failing(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = map[string]map[string]any{}
		s.collections[collection] = docs
	}
	id := uuid.NewString()
	docs[id] = deepCopy(fields)
	return id, nil
}

func (s *MemoryStore) GetAll(_ context.Context, collection string) ([]Document, error) {
	if err := s.failing(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Document{}
	for id, fields := range s.collections[collection] {
		out = append(out, Document{ID: id, Fields: deepCopy(fields)})
	}
	return out, nil
}

func (s *MemoryStore) GetByID(_ context.Context, collection, id string) (Document, error) {
	if err := s.failing(); err != nil {
		return Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	fields, ok := s.collections[collection][id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return Document{ID: id, Fields: deepCopy(fields)}, nil
}

func (s *MemoryStore) QueryEquals(_ context.Context, collection, field string, value any) ([]Document, error) {
	if err := s.failing(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Document{}
	for id, fields := range s.collections[collection] {
		if fmt.Sprint(fields[field]) == fmt.Sprint(value) {
			out = append(out, Document{ID: id, Fields: deepCopy(fields)})
		}
	}
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, partial map[string]any) error {
	if err := s.failing(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	for k, v := range deepCopy(partial) {
		fields[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	if err := s.failing(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) AddToSet(_ context.Context, collection, id, field, value string) error {
	if err := s.failing(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	set := StringSet(fields[field])
	for _, v := range set {
		if v == value {
			return nil
		}
	}
	fields[field] = append(set, value)
	return nil
}

func (s *MemoryStore) RemoveFromSet(_ context.Context, collection, id, field, value string) error {
	if err := s.failing(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	fields, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, domain.ErrNotFound)
	}
	set := StringSet(fields[field])
	kept := make([]string, 0, len(set))
	for _, v := range set {
		if v != value {
			kept = append(kept, v)
		}
	}
	fields[field] = kept
	return nil
}

// deepCopy isolates callers from the store's internal maps. A JSON round
// trip also normalizes payloads the same way a real backend would.
func deepCopy(fields map[string]any) map[string]any {
	data, err := json.Marshal(fields)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}
