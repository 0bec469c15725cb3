package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no document exists for the key.
// Callers treat an absent document as an empty one.
var ErrNotFound = errors.New("storage: document not found")

// Store is durable whole-document storage: a document is read and replaced in
// full, never partially updated. The quota tracker keeps one JSON document per
// tracked feature behind this interface.
type Store interface {
	// Read returns the full document for key, or ErrNotFound when absent.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the full document for key.
	Write(ctx context.Context, key string, doc []byte) error
}
