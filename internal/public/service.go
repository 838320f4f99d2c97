// Package public serves the unauthenticated read side: verified listings,
// the landing carousel, monument detail pages and their galleries.
package public

import (
	"context"
	"errors"
	"fmt"

	"github.com/heritage-atlas/heritage-api/internal/apperr"
	"github.com/heritage-atlas/heritage-api/internal/gallery"
	"github.com/heritage-atlas/heritage-api/internal/models"
	"github.com/heritage-atlas/heritage-api/internal/monument"
	"github.com/heritage-atlas/heritage-api/internal/monument/repository"
)

// DefaultLatest is the size of the landing carousel.
const DefaultLatest = 3

type Users interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type Gallery interface {
	ListByMonument(ctx context.Context, monumentID string) ([]*gallery.View, error)
}

type Covers interface {
	CoverURL(ctx context.Context, m *monument.Monument) (string, error)
}

// View is a monument joined with its owner's display name and map data.
// Coordinates is nil when the location does not parse.
type View struct {
	Monument    *monument.Monument    `json:"monument"`
	UserName    string                `json:"userName"`
	Coordinates *monument.Coordinates `json:"coordinates,omitempty"`
	MapsURL     string                `json:"mapsUrl"`
	CoverURL    string                `json:"coverUrl,omitempty"`
}

type Service struct {
	monuments repository.Repository
	users     Users
	gallery   Gallery
	covers    Covers
}

func NewService(monuments repository.Repository, users Users, gallery Gallery, covers Covers) *Service {
	return &Service{monuments: monuments, users: users, gallery: gallery, covers: covers}
}

func (s *Service) ListVerified(ctx context.Context) ([]*monument.Monument, error) {
	verified := true
	out, err := s.monuments.List(ctx, &verified)
	if err != nil {
		return nil, fmt.Errorf("list verified monuments: %w", err)
	}
	return out, nil
}

// ListLatest returns the n newest monuments whatever their verification status.
func (s *Service) ListLatest(ctx context.Context, n int) ([]*monument.Monument, error) {
	if n <= 0 {
		n = DefaultLatest
	}
	out, err := s.monuments.Latest(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("list latest monuments: %w", err)
	}
	return out, nil
}

// Get builds the detail view. An owner that cannot be loaded is an internal
// error, never a partial view or a not-found.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	m, err := s.monuments.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("monument %s: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, m.UserID)
	if err != nil {
		return nil, fmt.Errorf("owner %q of monument %s: %v", m.UserID, id, err)
	}

	v := &View{Monument: m, UserName: owner.Name, MapsURL: monument.MapsURL(m.Location)}
	if c, ok := monument.ParseLocation(m.Location); ok {
		v.Coordinates = &c
	}
	if v.CoverURL, err = s.covers.CoverURL(ctx, m); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) Gallery(ctx context.Context, monumentID string) ([]*gallery.View, error) {
	return s.gallery.ListByMonument(ctx, monumentID)
}
