package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heritage-atlas/heritage-api/internal/apperr"
	"github.com/heritage-atlas/heritage-api/internal/gallery"
	"github.com/heritage-atlas/heritage-api/internal/gallery/repository"
	"github.com/heritage-atlas/heritage-api/internal/media"
	"github.com/heritage-atlas/heritage-api/internal/models"
	"github.com/heritage-atlas/heritage-api/internal/monument"
	monumentrepo "github.com/heritage-atlas/heritage-api/internal/monument/repository"
	"github.com/heritage-atlas/heritage-api/internal/storage"
	"github.com/heritage-atlas/heritage-api/pkg/logger"
	"github.com/heritage-atlas/heritage-api/pkg/metrics"
)

// DefaultURLTTL is the validity window of signed gallery URLs.
const DefaultURLTTL = time.Hour

// Upload is a raw file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Monuments resolves the monument an item is attached to.
type Monuments interface {
	Get(ctx context.Context, id string) (*monument.Monument, error)
}

// Service runs the gallery media lifecycle: compress, store, record, sign, delete.
// The record store and the object store are not transactional; the ordering of
// each operation decides which side may be left behind on failure.
type Service struct {
	repo       repository.Repository
	monuments  Monuments
	store      storage.Storage
	compressor *media.Compressor
	urlTTL     time.Duration
	now        func() time.Time
}

func NewService(repo repository.Repository, monuments Monuments, store storage.Storage, compressor *media.Compressor, urlTTL time.Duration) *Service {
	if urlTTL <= 0 {
		urlTTL = DefaultURLTTL
	}
	return &Service{repo: repo, monuments: monuments, store: store, compressor: compressor, urlTTL: urlTTL, now: time.Now}
}

// Create stores the compressed upload and then records it. The monument must
// exist and belong to the caller unless the caller is an admin. A failed write
// leaves nothing behind; a failed record insert leaves an orphaned object.
func (s *Service) Create(ctx context.Context, actor models.Actor, monumentID, title string, up *Upload) (*gallery.Item, error) {
	title = strings.TrimSpace(title)
	if title == "" || up == nil || len(up.Data) == 0 {
		return nil, fmt.Errorf("%w: title and image are required", apperr.ErrValidation)
	}
	if monumentID == "" {
		return nil, fmt.Errorf("%w: monument id is required", apperr.ErrValidation)
	}
	m, err := s.monument(ctx, monumentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(m.UserID) {
		return nil, fmt.Errorf("%w: monument %s belongs to another user", apperr.ErrForbidden, monumentID)
	}

	c, err := s.put(ctx, up)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	it := &gallery.Item{
		ID:          uuid.NewString(),
		MonumentID:  monumentID,
		Title:       title,
		StorageKey:  c.Filename,
		MediaKind:   c.Kind,
		ContentType: c.ContentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		logger.Warnf("gallery: object %s stored but record insert failed: %v", c.Filename, err)
		return nil, fmt.Errorf("create gallery record: %w", err)
	}
	return it, nil
}

// ListByMonument returns the monument's items, each with a freshly signed URL.
func (s *Service) ListByMonument(ctx context.Context, monumentID string) ([]*gallery.View, error) {
	items, err := s.repo.ListByMonument(ctx, monumentID)
	if err != nil {
		return nil, fmt.Errorf("list gallery for %s: %w", monumentID, err)
	}
	out := make([]*gallery.View, 0, len(items))
	for _, it := range items {
		v, err := s.sign(ctx, it)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*gallery.View, error) {
	it, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.sign(ctx, it)
}

// Update replaces the title and/or media of an item. The new object is written
// and recorded before the previous one is deleted; a failed delete leaks the old
// object and is only logged.
func (s *Service) Update(ctx context.Context, actor models.Actor, id string, title *string, up *Upload) (*gallery.Item, error) {
	it, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, it); err != nil {
		return nil, err
	}
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, fmt.Errorf("%w: title must not be empty", apperr.ErrValidation)
		}
		it.Title = t
	}

	var oldKey string
	if up != nil && len(up.Data) > 0 {
		c, err := s.put(ctx, up)
		if err != nil {
			return nil, err
		}
		oldKey = it.StorageKey
		it.StorageKey = c.Filename
		it.MediaKind = c.Kind
		it.ContentType = c.ContentType
	}

	it.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, it); err != nil {
		if oldKey != "" {
			logger.Warnf("gallery: object %s stored but record %s update failed: %v", it.StorageKey, id, err)
		}
		return nil, s.mapErr(id, err)
	}

	if oldKey != "" && oldKey != it.StorageKey {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			logger.Warnf("gallery: previous object %s of %s not deleted: %v", oldKey, id, err)
		}
	}
	return it, nil
}

// Delete removes the object first, then the record. A failure between the two
// steps leaves a record pointing at a missing object.
func (s *Service) Delete(ctx context.Context, actor models.Actor, id string) error {
	it, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actor, it); err != nil {
		return err
	}
	return s.remove(ctx, it)
}

func (s *Service) remove(ctx context.Context, it *gallery.Item) error {
	if err := s.store.Delete(ctx, it.StorageKey); err != nil {
		return fmt.Errorf("delete object %s: %w", it.StorageKey, err)
	}
	if err := s.repo.Delete(ctx, it.ID); err != nil {
		return s.mapErr(it.ID, err)
	}
	return nil
}

// DeleteByMonument deletes every item of a monument and reports how many went.
// It runs on behalf of the monument's own delete, so no caller check applies.
func (s *Service) DeleteByMonument(ctx context.Context, monumentID string) (int, error) {
	items, err := s.repo.ListByMonument(ctx, monumentID)
	if err != nil {
		return 0, fmt.Errorf("list gallery for %s: %w", monumentID, err)
	}
	n := 0
	for _, it := range items {
		if err := s.remove(ctx, it); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Compress and write an upload; shared with monument covers.
func (s *Service) put(ctx context.Context, up *Upload) (*media.Compressed, error) {
	c, err := s.compressor.Compress(up.Filename, up.ContentType, up.Data)
	if err != nil {
		return nil, fmt.Errorf("compress %q: %w", up.Filename, err)
	}
	if err := s.store.Put(ctx, c.Filename, bytes.NewReader(c.Data), int64(len(c.Data)), c.ContentType); err != nil {
		return nil, fmt.Errorf("store %s: %w", c.Filename, err)
	}
	metrics.MediaUploads.WithLabelValues(string(c.Kind)).Inc()
	metrics.MediaBytes.WithLabelValues(string(c.Kind)).Add(float64(len(c.Data)))
	return c, nil
}

// Store compresses and writes an upload outside of any gallery record and returns
// the key and kind. Used for monument cover images.
func (s *Service) Store(ctx context.Context, up *Upload) (string, gallery.MediaKind, error) {
	if up == nil || len(up.Data) == 0 {
		return "", "", fmt.Errorf("%w: image is required", apperr.ErrValidation)
	}
	c, err := s.put(ctx, up)
	if err != nil {
		return "", "", err
	}
	return c.Filename, c.Kind, nil
}

// SignKey presigns an arbitrary key with the gallery URL TTL.
func (s *Service) SignKey(ctx context.Context, key string) (string, time.Time, error) {
	u, err := s.store.PresignGet(ctx, key, s.urlTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s: %w", key, err)
	}
	return u, s.now().UTC().Add(s.urlTTL), nil
}

// RemoveObject deletes a key that no record references any more.
func (s *Service) RemoveObject(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

func (s *Service) sign(ctx context.Context, it *gallery.Item) (*gallery.View, error) {
	u, exp, err := s.SignKey(ctx, it.StorageKey)
	if err != nil {
		return nil, err
	}
	return &gallery.View{Item: it, URL: u, ExpiresAt: exp}, nil
}

func (s *Service) load(ctx context.Context, id string) (*gallery.Item, error) {
	it, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.mapErr(id, err)
	}
	return it, nil
}

// authorize lets admins through and otherwise requires the caller to own the
// item's monument. Items of a deleted monument are left to admins.
func (s *Service) authorize(ctx context.Context, actor models.Actor, it *gallery.Item) error {
	if actor.IsAdmin() {
		return nil
	}
	m, err := s.monument(ctx, it.MonumentID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if m == nil || !actor.CanModify(m.UserID) {
		return fmt.Errorf("%w: gallery item %s belongs to another user", apperr.ErrForbidden, it.ID)
	}
	return nil
}

func (s *Service) monument(ctx context.Context, id string) (*monument.Monument, error) {
	m, err := s.monuments.Get(ctx, id)
	if errors.Is(err, monumentrepo.ErrNotFound) {
		return nil, fmt.Errorf("monument %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load monument %s: %w", id, err)
	}
	return m, nil
}

func (s *Service) mapErr(id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("gallery item %s: %w", id, apperr.ErrNotFound)
	}
	return err
}
