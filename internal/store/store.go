// Package store defines the document-store port the services are written
// against, plus the gorm-backed and in-memory implementations. The concrete
// backend is swappable; nothing above this package knows which one is wired.
package store

import "context"

// Document is a stored document: an opaque id plus a loosely-typed payload.
type Document struct {
	ID     string
	Fields map[string]any
}

// DocumentStore is the persistence port. Implementations must return
// domain.ErrNotFound when an id does not resolve and wrap infrastructure
// failures in domain.ErrUnavailable.
type DocumentStore interface {
	// Insert stores a new document and returns its assigned id.
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)

	// GetAll returns every document in the collection, store-native order.
	GetAll(ctx context.Context, collection string) ([]Document, error)

	// GetByID returns a single document.
	GetByID(ctx context.Context, collection, id string) (Document, error)

	// QueryEquals returns documents whose field equals value exactly
	// (case-sensitive).
	QueryEquals(ctx context.Context, collection, field string, value any) ([]Document, error)

	// Update merges the partial payload into the stored document. Omitted
	// fields are untouched.
	Update(ctx context.Context, collection, id string, partial map[string]any) error

	// Delete permanently removes the document. No tombstone is kept.
	Delete(ctx context.Context, collection, id string) error

	// AddToSet atomically adds value to the string-set field. Adding a
	// value that is already present is a no-op, so retries are safe.
	AddToSet(ctx context.Context, collection, id, field, value string) error

	// RemoveFromSet atomically removes value from the string-set field.
	// Removing an absent value is a no-op.
	RemoveFromSet(ctx context.Context, collection, id, field, value string) error
}

// StringSet normalizes a stored set field, which may come back from a
// backend as []string or as decoded JSON ([]any).
func StringSet(v any) []string {
	switch s := v.(type) {
	case []string:
		out := make([]string, len(s))
		copy(out, s)
		return out
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return []string{}
	}
}
