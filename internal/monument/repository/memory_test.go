package repository

import (
	"context"
	"testing"
	"time"

	"github.com/heritage-atlas/heritage-api/internal/monument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, r *MemoryRepo, statuses ...bool) []string {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]string, len(statuses))
	for i, v := range statuses {
		ids[i] = string(rune('a' + i))
		require.NoError(t, r.Create(context.Background(), &monument.Monument{
			ID:        ids[i],
			Title:     "m" + ids[i],
			Verified:  v,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	return ids
}

func TestMemoryRepo_ListFiltersByStatus(t *testing.T) {
	r := NewMemoryRepo()
	seed(t, r, true, false, true, true, false)
	ctx := context.Background()

	all, err := r.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	yes := true
	verified, err := r.List(ctx, &yes)
	require.NoError(t, err)
	require.Len(t, verified, 3)
	for _, m := range verified {
		assert.True(t, m.Verified)
	}
}

func TestMemoryRepo_LatestIgnoresStatus(t *testing.T) {
	r := NewMemoryRepo()
	seed(t, r, true, false, true, true, false)

	got, err := r.Latest(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"e", "d", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.False(t, got[0].Verified)
}

func TestMemoryRepo_SetVerifiedAndDelete(t *testing.T) {
	r := NewMemoryRepo()
	seed(t, r, false)
	ctx := context.Background()

	require.NoError(t, r.SetVerified(ctx, "a", true))
	m, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, m.Verified)

	assert.ErrorIs(t, r.SetVerified(ctx, "zz", true), ErrNotFound)
	require.NoError(t, r.Delete(ctx, "a"))
	assert.ErrorIs(t, r.Delete(ctx, "a"), ErrNotFound)
	_, err = r.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepo()
	seed(t, r, false)
	ctx := context.Background()

	m, err := r.Get(ctx, "a")
	require.NoError(t, err)
	m.Title = "changed"
	again, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "ma", again.Title)
}
