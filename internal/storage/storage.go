// Package storage holds the binary payloads of gallery items and monument covers.
// Records in the document store reference objects by key; URLs handed to clients
// are presigned on every read and never persisted.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when a key does not resolve to a stored object.
var ErrObjectNotFound = errors.New("object not found")

// Storage is the object store contract used by the media services.
type Storage interface {
	// Put writes size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// PresignGet returns a URL granting read access to key for the given duration.
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
