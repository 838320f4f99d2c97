package users

import (
	"context"
	"testing"

	"github.com/heritage-atlas/heritage-api/internal/apperr"
	"github.com/heritage-atlas/heritage-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryUserRepository())
	ctx := context.Background()

	u, err := svc.Register(ctx, "Asha", "Asha@Example.com", "correct-horse", "")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, "correct-horse")

	got, err := svc.Authenticate(ctx, "asha@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "asha@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewService(NewMemoryUserRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@example.com", "longenough", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Register(ctx, "A", "not-an-email", "longenough", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Register(ctx, "A", "a@example.com", "short", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Register(ctx, "A", "a@example.com", "longenough", "root")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Register(ctx, "A", "a@example.com", "longenough", models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "B", "A@example.com", "longenough", "")
	assert.ErrorIs(t, err, apperr.ErrValidation, "duplicate email")
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(NewMemoryUserRepository())
	_, err := svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpsertFromClaims(t *testing.T) {
	svc := NewService(NewMemoryUserRepository())
	ctx := context.Background()
	claims := map[string]interface{}{
		"sub":   "sub-123",
		"email": "x@example.com",
		"name":  "X User",
	}

	u, err := svc.UpsertFromClaims(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "sub-123", u.ID)
	assert.Equal(t, "X User", u.Name)
	assert.Equal(t, models.RoleUser, u.Role)

	claims["name"] = "Renamed"
	u, err = svc.UpsertFromClaims(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", u.Name)

	got, err := svc.GetByID(ctx, "sub-123")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	_, err = svc.UpsertFromClaims(ctx, map[string]interface{}{"email": "y@example.com"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}
