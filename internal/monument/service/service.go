package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/heritage-atlas/heritage-api/internal/apperr"
	"github.com/heritage-atlas/heritage-api/internal/gallery"
	gallerysvc "github.com/heritage-atlas/heritage-api/internal/gallery/service"
	"github.com/heritage-atlas/heritage-api/internal/models"
	"github.com/heritage-atlas/heritage-api/internal/monument"
	"github.com/heritage-atlas/heritage-api/internal/monument/repository"
	"github.com/heritage-atlas/heritage-api/pkg/logger"
)

// Media is the slice of the gallery service used for covers and cascades.
type Media interface {
	Store(ctx context.Context, up *gallerysvc.Upload) (string, gallery.MediaKind, error)
	SignKey(ctx context.Context, key string) (string, time.Time, error)
	RemoveObject(ctx context.Context, key string) error
	DeleteByMonument(ctx context.Context, monumentID string) (int, error)
}

type Service struct {
	repo     repository.Repository
	media    Media
	validate *validator.Validate
	cascade  bool
	now      func() time.Time
}

// NewService builds the monument service. With cascade set, Delete also removes
// the monument's gallery and cover; otherwise they are left orphaned.
func NewService(repo repository.Repository, media Media, cascade bool) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{repo: repo, media: media, validate: v, cascade: cascade, now: time.Now}
}

// Create stores a new, unverified monument owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, in *monument.Monument) (*monument.Monument, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: missing owner", apperr.ErrUnauthorized)
	}
	m := *in
	trim(&m)
	if err := s.check(&m); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	m.ID = uuid.NewString()
	m.UserID = ownerID
	m.Verified = false
	m.CoverKey = ""
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := s.repo.Create(ctx, &m); err != nil {
		return nil, fmt.Errorf("create monument: %w", err)
	}
	return &m, nil
}

// List returns every monument, optionally narrowed by verification status.
func (s *Service) List(ctx context.Context, verified *bool) ([]*monument.Monument, error) {
	out, err := s.repo.List(ctx, verified)
	if err != nil {
		return nil, fmt.Errorf("list monuments: %w", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*monument.Monument, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapErr(id, err)
	}
	return m, nil
}

// Update merges the non-nil fields of p and revalidates the result. Only the
// owner or an admin may edit; an owner's edit sends the monument back to moderation.
func (s *Service) Update(ctx context.Context, actor models.Actor, id string, p *monument.Patch) (*monument.Monument, error) {
	m, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	p.Apply(m)
	trim(m)
	if err := s.check(m); err != nil {
		return nil, err
	}
	s.touch(actor, m)
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, mapErr(id, err)
	}
	return m, nil
}

func (s *Service) SetVerified(ctx context.Context, id string, verified bool) (*monument.Monument, error) {
	if err := s.repo.SetVerified(ctx, id, verified); err != nil {
		return nil, mapErr(id, err)
	}
	return s.Get(ctx, id)
}

// SetCover stores a new cover image and then drops the previous one. Videos are
// rejected after the write, so their object is removed again.
func (s *Service) SetCover(ctx context.Context, actor models.Actor, id string, up *gallerysvc.Upload) (*monument.Monument, error) {
	m, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	key, kind, err := s.media.Store(ctx, up)
	if err != nil {
		return nil, err
	}
	if kind != gallery.KindImage {
		if err := s.media.RemoveObject(ctx, key); err != nil {
			logger.Warnf("monument: rejected cover %s not deleted: %v", key, err)
		}
		return nil, fmt.Errorf("%w: cover must be an image", apperr.ErrValidation)
	}

	old := m.CoverKey
	m.CoverKey = key
	s.touch(actor, m)
	if err := s.repo.Update(ctx, m); err != nil {
		logger.Warnf("monument: cover %s stored but record %s update failed: %v", key, id, err)
		return nil, mapErr(id, err)
	}
	if old != "" {
		if err := s.media.RemoveObject(ctx, old); err != nil {
			logger.Warnf("monument: previous cover %s of %s not deleted: %v", old, id, err)
		}
	}
	return m, nil
}

// CoverURL signs the cover of m. It returns "" when m has no cover.
func (s *Service) CoverURL(ctx context.Context, m *monument.Monument) (string, error) {
	if m.CoverKey == "" {
		return "", nil
	}
	u, _, err := s.media.SignKey(ctx, m.CoverKey)
	return u, err
}

// Delete removes the record. With cascading enabled the gallery goes first,
// then the cover object, so a failure never leaves media without a monument.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id string) error {
	m, err := s.editable(ctx, actor, id)
	if err != nil {
		return err
	}
	if s.cascade {
		n, err := s.media.DeleteByMonument(ctx, id)
		if err != nil {
			return fmt.Errorf("delete gallery of %s after %d items: %w", id, n, err)
		}
		if m.CoverKey != "" {
			if err := s.media.RemoveObject(ctx, m.CoverKey); err != nil {
				return fmt.Errorf("delete cover of %s: %w", id, err)
			}
		}
		logger.Infof("monument %s: removed %d gallery items", id, n)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapErr(id, err)
	}
	return nil
}

// editable loads id and checks that actor may change it.
func (s *Service) editable(ctx context.Context, actor models.Actor, id string) (*monument.Monument, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(m.UserID) {
		return nil, fmt.Errorf("%w: monument %s belongs to another user", apperr.ErrForbidden, id)
	}
	return m, nil
}

func (s *Service) touch(actor models.Actor, m *monument.Monument) {
	m.UpdatedAt = s.now().UTC()
	if !actor.IsAdmin() {
		m.Verified = false
	}
}

func (s *Service) check(m *monument.Monument) error {
	err := s.validate.Struct(m)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return fmt.Errorf("%w: missing required fields: %s", apperr.ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", apperr.ErrValidation, err)
}

func trim(m *monument.Monument) {
	for _, f := range []*string{&m.Title, &m.ShortDescription, &m.LongDescription, &m.Place, &m.State, &m.Location} {
		*f = strings.TrimSpace(*f)
	}
}

func mapErr(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("monument %s: %w", id, apperr.ErrNotFound)
	}
	return err
}
