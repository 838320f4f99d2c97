package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"

	"github.com/heritage-atlas/heritage-api/internal/apperr"
	"github.com/heritage-atlas/heritage-api/internal/gallery"
	"github.com/heritage-atlas/heritage-api/internal/gallery/repository"
	"github.com/heritage-atlas/heritage-api/internal/media"
	"github.com/heritage-atlas/heritage-api/internal/models"
	"github.com/heritage-atlas/heritage-api/internal/monument"
	monumentrepo "github.com/heritage-atlas/heritage-api/internal/monument/repository"
	"github.com/heritage-atlas/heritage-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	owner    = models.Actor{ID: "user-1", Role: models.RoleUser}
	stranger = models.Actor{ID: "user-2", Role: models.RoleUser}
	admin    = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
)

type fixture struct {
	svc       *Service
	repo      *repository.MemoryRepo
	monuments *monumentrepo.MemoryRepo
	store     *storage.MemoryStorage
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:      repository.NewMemoryRepo(),
		monuments: monumentrepo.NewMemoryRepo(),
		store:     storage.NewMemoryStorage("media"),
		now:       time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	for _, id := range []string{"m1", "m2"} {
		require.NoError(t, f.monuments.Create(context.Background(), &monument.Monument{ID: id, Title: id, UserID: owner.ID, CreatedAt: f.now}))
	}
	f.store.SetClock(func() time.Time { return f.now })
	f.svc = NewService(f.repo, f.monuments, f.store, media.NewCompressor(20), time.Hour)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func pngUpload(t *testing.T, name string, shade uint8) *Upload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: shade, G: uint8(x * 10), B: uint8(y * 10), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &Upload{Filename: name, ContentType: "image/png", Data: buf.Bytes()}
}

func videoUpload(name string, body string) *Upload {
	return &Upload{Filename: name, ContentType: "video/mp4", Data: []byte(body)}
}

func TestCreate_ImageIsReencodedAndStored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	it, err := f.svc.Create(ctx, owner, "m1", "East facade", pngUpload(t, "facade.png", 200))
	require.NoError(t, err)
	assert.Equal(t, gallery.KindImage, it.MediaKind)
	assert.Equal(t, "m1", it.MonumentID)

	data, ct, ok := f.store.Object(it.StorageKey)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)
	_, err = jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	stored, err := f.repo.Get(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, it.StorageKey, stored.StorageKey)
}

func TestCreate_VideoStoredByteIdentical(t *testing.T) {
	f := newFixture(t)
	up := videoUpload("tour.mp4", "\x00\x00\x00\x18ftypmp42-payload")

	it, err := f.svc.Create(context.Background(), owner, "m1", "Tour", up)
	require.NoError(t, err)
	assert.Equal(t, gallery.KindVideo, it.MediaKind)

	data, _, ok := f.store.Object(it.StorageKey)
	require.True(t, ok)
	assert.Equal(t, up.Data, data)
}

func TestCreate_MissingFieldsCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		title string
		up    *Upload
	}{
		{"", videoUpload("a.mp4", "x")},
		{"   ", videoUpload("a.mp4", "x")},
		{"Title", nil},
		{"Title", &Upload{Filename: "empty.png"}},
	}
	for _, tc := range cases {
		_, err := f.svc.Create(ctx, owner, "m1", tc.title, tc.up)
		require.ErrorIs(t, err, apperr.ErrValidation)
	}
	assert.Equal(t, 0, f.store.Len())
	list, err := f.repo.ListByMonument(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_StorageFailureCreatesNoRecord(t *testing.T) {
	f := newFixture(t)
	f.store.PutErr = errors.New("bucket unreachable")

	_, err := f.svc.Create(context.Background(), owner, "m1", "Gate", videoUpload("g.mp4", "v"))
	require.Error(t, err)
	assert.Equal(t, 500, apperr.Status(err))

	list, _ := f.repo.ListByMonument(context.Background(), "m1")
	assert.Empty(t, list)
}

func TestCreate_CompressionFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), owner, "m1", "Broken", &Upload{Filename: "x.jpg", ContentType: "image/jpeg", Data: []byte("nope")})
	require.ErrorIs(t, err, media.ErrCompressionFailed)
	assert.Equal(t, 500, apperr.Status(err))
	assert.Equal(t, 0, f.store.Len())
}

func TestListByMonument_SignedURLsExpire(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	up := videoUpload("walk.mp4", "walk-bytes")
	_, err := f.svc.Create(ctx, owner, "m1", "Walk", up)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, owner, "m2", "Elsewhere", videoUpload("e.mp4", "e"))
	require.NoError(t, err)

	views, err := f.svc.ListByMonument(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, f.now.Add(time.Hour), views[0].ExpiresAt)

	got, err := f.store.Resolve(views[0].URL)
	require.NoError(t, err)
	assert.Equal(t, up.Data, got)

	f.now = f.now.Add(61 * time.Minute)
	_, err = f.store.Resolve(views[0].URL)
	require.ErrorIs(t, err, storage.ErrURLExpired)

	// a fresh read signs again
	views, err = f.svc.ListByMonument(ctx, "m1")
	require.NoError(t, err)
	_, err = f.store.Resolve(views[0].URL)
	require.NoError(t, err)
}

func TestListByMonument_PresignFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, owner, "m1", "Walk", videoUpload("walk.mp4", "w"))
	require.NoError(t, err)

	f.store.PresignErr = errors.New("signer offline")
	_, err = f.svc.ListByMonument(ctx, "m1")
	require.Error(t, err)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdate_NewFileReplacesOldObject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it, err := f.svc.Create(ctx, owner, "m1", "Before", videoUpload("before.mp4", "old-bytes"))
	require.NoError(t, err)
	oldKey := it.StorageKey

	title := "After"
	updated, err := f.svc.Update(ctx, owner, it.ID, &title, videoUpload("after.mp4", "new-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Title)
	assert.NotEqual(t, oldKey, updated.StorageKey)

	_, _, ok := f.store.Object(oldKey)
	assert.False(t, ok, "previous object must be deleted")

	v, err := f.svc.Get(ctx, it.ID)
	require.NoError(t, err)
	got, err := f.store.Resolve(v.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("new-bytes"), got)
}

func TestUpdate_OldObjectLeaksWhenDeleteFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it, err := f.svc.Create(ctx, owner, "m1", "Before", videoUpload("before.mp4", "old"))
	require.NoError(t, err)

	f.store.DeleteErr = errors.New("permission denied")
	updated, err := f.svc.Update(ctx, owner, it.ID, nil, pngUpload(t, "after.png", 10))
	require.NoError(t, err)
	assert.Equal(t, gallery.KindImage, updated.MediaKind)

	_, _, oldStill := f.store.Object(it.StorageKey)
	_, _, newThere := f.store.Object(updated.StorageKey)
	assert.True(t, oldStill)
	assert.True(t, newThere)
}

func TestUpdate_TitleOnlyKeepsObject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it, err := f.svc.Create(ctx, owner, "m1", "Before", videoUpload("v.mp4", "v"))
	require.NoError(t, err)

	title := "Renamed"
	updated, err := f.svc.Update(ctx, owner, it.ID, &title, nil)
	require.NoError(t, err)
	assert.Equal(t, it.StorageKey, updated.StorageKey)
	assert.Equal(t, 1, f.store.Len())

	empty := " "
	_, err = f.svc.Update(ctx, owner, it.ID, &empty, nil)
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.Update(ctx, owner, "missing", &title, nil)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete_RemovesObjectAndRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it, err := f.svc.Create(ctx, owner, "m1", "Gone", videoUpload("g.mp4", "g"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, owner, it.ID))
	assert.Equal(t, 0, f.store.Len())
	_, err = f.repo.Get(ctx, it.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, f.svc.Delete(ctx, owner, it.ID), apperr.ErrNotFound)
}

func TestDelete_StorageFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it, err := f.svc.Create(ctx, owner, "m1", "Stuck", videoUpload("s.mp4", "s"))
	require.NoError(t, err)

	f.store.DeleteErr = errors.New("denied")
	require.Error(t, f.svc.Delete(ctx, owner, it.ID))
	_, err = f.repo.Get(ctx, it.ID)
	require.NoError(t, err)
}

func TestDeleteByMonument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"a.mp4", "b.mp4"} {
		_, err := f.svc.Create(ctx, owner, "m1", name, videoUpload(name, name))
		require.NoError(t, err)
	}
	_, err := f.svc.Create(ctx, owner, "m2", "keep", videoUpload("k.mp4", "k"))
	require.NoError(t, err)

	n, err := f.svc.DeleteByMonument(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, f.store.Len())
}

func TestCreate_UnknownMonumentIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Create(context.Background(), admin, "gone", "Gate", videoUpload("g.mp4", "v"))
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 0, f.store.Len())
}

type failingCreateRepo struct {
	*repository.MemoryRepo
}

func (failingCreateRepo) Create(ctx context.Context, it *gallery.Item) error {
	return errors.New("insert timed out")
}

func TestCreate_RecordFailureLeavesOrphanedObject(t *testing.T) {
	f := newFixture(t)
	svc := NewService(failingCreateRepo{f.repo}, f.monuments, f.store, media.NewCompressor(20), time.Hour)

	_, err := svc.Create(context.Background(), owner, "m1", "Gate", videoUpload("g.mp4", "v"))
	require.Error(t, err)
	assert.Equal(t, 500, apperr.Status(err))
	assert.Equal(t, 1, f.store.Len())
	list, err := f.repo.ListByMonument(context.Background(), "m1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMutations_RequireMonumentOwnerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, stranger, "m1", "Graffiti", videoUpload("x.mp4", "x"))
	require.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, 0, f.store.Len(), "nothing is written for a rejected caller")

	it, err := f.svc.Create(ctx, owner, "m1", "Gate", videoUpload("g.mp4", "g"))
	require.NoError(t, err)

	title := "Defaced"
	_, err = f.svc.Update(ctx, stranger, it.ID, &title, nil)
	require.ErrorIs(t, err, apperr.ErrForbidden)
	require.ErrorIs(t, f.svc.Delete(ctx, stranger, it.ID), apperr.ErrForbidden)
	require.ErrorIs(t, f.svc.Delete(ctx, models.Actor{}, it.ID), apperr.ErrForbidden)

	updated, err := f.svc.Update(ctx, admin, it.ID, &title, nil)
	require.NoError(t, err)
	assert.Equal(t, "Defaced", updated.Title)

	// once the monument is gone only an admin can clean up
	require.NoError(t, f.monuments.Delete(ctx, "m1"))
	require.ErrorIs(t, f.svc.Delete(ctx, owner, it.ID), apperr.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, admin, it.ID))
}
