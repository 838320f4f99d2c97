package sessions

import (
	"errors"
	"time"
)

// ErrInvalidRefresh is returned for unknown, expired or already rotated refresh tokens.
var ErrInvalidRefresh = errors.New("invalid refresh token")

// Session represents a persistent refresh session
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	UserID       string    `bson:"userId" json:"userId"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

func (s *Session) expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
