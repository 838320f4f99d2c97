package oidc

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/heritage-atlas/heritage-api/internal/models"
	"github.com/heritage-atlas/heritage-api/pkg/middleware"
)

// IDToken is a minimal interface for token payloads that allows extracting claims
// It is satisfied by *oidc.IDToken and by test fakes.
type IDToken interface {
	Claims(v interface{}) error
}

// Verifier checks ID tokens from an external provider in place of locally issued JWTs.
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier creates a new OIDC verifier for the given issuer and client ID
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &Verifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

// Verify verifies the raw ID token and normalises its role claim.
func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	return roleToken{IDToken: idToken}, nil
}

// roleToken exposes a single "role" claim. Providers that send a "roles" list
// containing "admin" map to the admin role; everyone else is a user.
type roleToken struct {
	IDToken
}

func (t roleToken) Claims(v interface{}) error {
	mm, ok := v.(*map[string]interface{})
	if !ok {
		return t.IDToken.Claims(v)
	}
	if err := t.IDToken.Claims(mm); err != nil {
		return err
	}
	claims := *mm
	if claims == nil {
		claims = map[string]interface{}{}
		*mm = claims
	}
	claims["role"] = roleOf(claims)
	return nil
}

func roleOf(claims map[string]interface{}) string {
	if r, _ := claims["role"].(string); r == models.RoleAdmin {
		return models.RoleAdmin
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, r := range roles {
			if s, _ := r.(string); s == models.RoleAdmin {
				return models.RoleAdmin
			}
		}
	}
	return models.RoleUser
}
