package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/heritage-atlas/heritage-api/internal/apperr"
	"github.com/heritage-atlas/heritage-api/internal/models"
	"github.com/heritage-atlas/heritage-api/internal/sessions"
	"github.com/heritage-atlas/heritage-api/internal/tokens"
	"github.com/heritage-atlas/heritage-api/internal/users"
	"github.com/heritage-atlas/heritage-api/pkg/logger"
	"github.com/heritage-atlas/heritage-api/pkg/middleware"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LoginResponse is returned by login and refresh.
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	User         *models.User `json:"user"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	issuer      *tokens.Issuer
	blacklist   sessions.Blacklist
	refreshTTL  time.Duration
}

func NewAuthHandler(u *users.Service, s *sessions.Service, issuer *tokens.Issuer, bl sessions.Blacklist, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{usersSvc: u, sessionsSvc: s, issuer: issuer, blacklist: bl, refreshTTL: refreshTTL}
}

// Register mounts the /users routes. auth guards /users/me.
func (h *AuthHandler) Register(rg *gin.RouterGroup, auth ...gin.HandlerFunc) {
	u := rg.Group("/users")
	u.POST("/register", h.SignUp)
	u.POST("/login", h.Login)
	u.POST("/refresh", h.Refresh)
	u.POST("/logout", h.Logout)
	u.GET("/me", append(auth, h.Me)...)
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}
	u, err := h.usersSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password, models.RoleUser)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}
	u, err := h.usersSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	rft, err := h.sessionsSvc.CreateSession(c.Request.Context(), u.ID, h.refreshTTL)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	h.respondTokens(c, u, rft)
}

// Refresh rotates the refresh token and returns a new access token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}
	sess, next, err := h.sessionsSvc.Rotate(c.Request.Context(), req.RefreshToken, h.refreshTTL)
	if err != nil {
		if errors.Is(err, sessions.ErrInvalidRefresh) {
			err = fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
		}
		apperr.Respond(c, err)
		return
	}
	u, err := h.usersSvc.GetByID(c.Request.Context(), sess.UserID)
	if err != nil {
		// the account vanished after the session was issued
		apperr.Respond(c, fmt.Errorf("refresh for %s: %v", sess.UserID, err))
		return
	}
	h.respondTokens(c, u, next)
}

// Logout invalidates the refresh token and blacklists the presented access token
// for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}
	var at string
	if auth := c.GetHeader("Authorization"); auth != "" {
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &at); n == 1 {
			if ttl, err := h.issuer.Remaining(at); err == nil {
				if err := h.blacklist.Revoke(c.Request.Context(), at, ttl); err != nil {
					apperr.Respond(c, fmt.Errorf("blacklist access token: %w", err))
					return
				}
			} else {
				logger.Debugf("logout: access token not blacklisted: %v", err)
			}
		}
	}
	if err := h.sessionsSvc.DeleteRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		apperr.Respond(c, fmt.Errorf("remove session: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.usersSvc.GetByID(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ProvisionUsers creates a local record for authenticated subjects that have none,
// which happens for identities coming from an external OIDC provider.
func ProvisionUsers(svc *users.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub := middleware.Subject(c)
		if sub == "" {
			c.Next()
			return
		}
		if _, err := svc.GetByID(c.Request.Context(), sub); err == nil {
			c.Next()
			return
		} else if !errors.Is(err, apperr.ErrNotFound) {
			apperr.Respond(c, err)
			return
		}
		claims, _ := c.Get(middleware.ClaimsKey)
		cm, _ := claims.(map[string]interface{})
		if _, err := svc.UpsertFromClaims(c.Request.Context(), cm); err != nil {
			apperr.Respond(c, err)
			return
		}
		c.Next()
	}
}

func (h *AuthHandler) respondTokens(c *gin.Context, u *models.User, refresh string) {
	access, err := h.issuer.GenerateAccessToken(u)
	if err != nil {
		apperr.Respond(c, fmt.Errorf("sign access token: %w", err))
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(h.issuer.TTL() / time.Second),
		User:         u,
	})
}
