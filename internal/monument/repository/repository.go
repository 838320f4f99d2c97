package repository

import (
	"context"
	"errors"

	"github.com/heritage-atlas/heritage-api/internal/monument"
)

var ErrNotFound = errors.New("monument not found")

// Repository persists monument records.
type Repository interface {
	Create(ctx context.Context, m *monument.Monument) error
	Get(ctx context.Context, id string) (*monument.Monument, error)
	// List returns all monuments, or only those whose verification status
	// equals *verified when it is non-nil.
	List(ctx context.Context, verified *bool) ([]*monument.Monument, error)
	// Latest returns up to n monuments, newest createdAt first, regardless of status.
	Latest(ctx context.Context, n int) ([]*monument.Monument, error)
	Update(ctx context.Context, m *monument.Monument) error
	SetVerified(ctx context.Context, id string, verified bool) error
	Delete(ctx context.Context, id string) error
}
