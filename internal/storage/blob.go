// Package storage is the blob-store port: local image bytes go in, durable
// URLs come out. Backed by S3 in production and an in-memory fake in tests.
package storage

import "context"

// BlobStore abstracts the binary object store.
type BlobStore interface {
	// Upload writes the bytes under path and returns a fetchable URL.
	Upload(ctx context.Context, data []byte, path, contentType string) (string, error)

	// ResolveURL turns a storage-relative path into a fetchable URL.
	ResolveURL(ctx context.Context, path string) (string, error)
}
