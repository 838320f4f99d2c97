package repository

import (
	"context"
	"errors"

	"github.com/heritage-atlas/heritage-api/internal/gallery"
)

var ErrNotFound = errors.New("gallery item not found")

// Repository persists gallery records. Binary payloads live in object storage.
type Repository interface {
	Create(ctx context.Context, it *gallery.Item) error
	Get(ctx context.Context, id string) (*gallery.Item, error)
	ListByMonument(ctx context.Context, monumentID string) ([]*gallery.Item, error)
	Update(ctx context.Context, it *gallery.Item) error
	Delete(ctx context.Context, id string) error
}
