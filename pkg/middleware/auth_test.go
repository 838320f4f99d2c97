package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier implements Verifier
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	switch raw {
	case "admintoken":
		return &fakeToken{data: map[string]interface{}{"sub": "admin1", "role": "admin"}}, nil
	case "goodtoken", "revoked-token":
		return &fakeToken{data: map[string]interface{}{"sub": "user1", "role": "user"}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

type fakeRevocations map[string]bool

func (f fakeRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	return f[token], nil
}

func serve(g *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware_RejectsBadCredentials(t *testing.T) {
	g := gin.New()
	called := false
	g.GET("/", AuthMiddleware(&fakeVerifier{}, nil), func(c *gin.Context) {
		called = true
		c.Status(http.StatusOK)
	})

	require.Equal(t, http.StatusUnauthorized, serve(g, "").Code)
	require.Equal(t, http.StatusUnauthorized, serve(g, "BadHeader").Code)
	require.Equal(t, http.StatusUnauthorized, serve(g, "Bearer forged").Code)
	require.False(t, called, "handler must not run for unauthenticated requests")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}, nil), func(c *gin.Context) {
		require.Equal(t, "user1", Subject(c))
		claims, _ := c.Get(ClaimsKey)
		c.JSON(http.StatusOK, gin.H{"claims": claims})
	})

	rw := serve(g, "Bearer goodtoken")
	require.Equal(t, http.StatusOK, rw.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Contains(t, got, "claims")
}

func TestAuthMiddleware_RejectsRevokedToken(t *testing.T) {
	g := gin.New()
	rev := fakeRevocations{"revoked-token": true}
	g.GET("/", AuthMiddleware(&fakeVerifier{}, rev), func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusUnauthorized, serve(g, "Bearer revoked-token").Code)
	require.Equal(t, http.StatusOK, serve(g, "Bearer goodtoken").Code)
}

func TestRequireRole(t *testing.T) {
	g := gin.New()
	g.GET("/", AuthMiddleware(&fakeVerifier{}, nil), RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusForbidden, serve(g, "Bearer goodtoken").Code)
	require.Equal(t, http.StatusOK, serve(g, "Bearer admintoken").Code)
}

type onlyVerifier string

func (o onlyVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	if raw != string(o) {
		return nil, fmt.Errorf("rejected by %s", string(o))
	}
	return &fakeToken{data: map[string]interface{}{"sub": string(o)}}, nil
}

func TestAnyVerifier(t *testing.T) {
	v := AnyVerifier(onlyVerifier("oidc"), onlyVerifier("local"))
	tok, err := v.Verify(context.Background(), "local")
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "local", claims["sub"])

	_, err = v.Verify(context.Background(), "forged")
	require.EqualError(t, err, "rejected by local")

	_, err = AnyVerifier().Verify(context.Background(), "x")
	require.Error(t, err)
}
