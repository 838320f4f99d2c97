package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/heritage-atlas/heritage-api/internal/apperr"
	galleryhandler "github.com/heritage-atlas/heritage-api/internal/gallery/handler"
	"github.com/heritage-atlas/heritage-api/internal/models"
	"github.com/heritage-atlas/heritage-api/internal/monument"
	"github.com/heritage-atlas/heritage-api/internal/monument/service"
	"github.com/heritage-atlas/heritage-api/pkg/middleware"
)

// RegisterRoutes mounts /monuments. rg must already carry AuthMiddleware.
// Edits, covers and deletes are limited to the owner or an admin; verify and
// unverify require the admin role.
func RegisterRoutes(rg *gin.RouterGroup, svc *service.Service, maxUpload int64) {
	h := &handler{svc: svc, maxUpload: maxUpload}
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.PUT("/:id/cover", h.cover)

	admin := middleware.RequireRole(models.RoleAdmin)
	rg.PUT("/verify/:id", admin, h.setVerified(true))
	rg.PUT("/unverify/:id", admin, h.setVerified(false))
}

type handler struct {
	svc       *service.Service
	maxUpload int64
}

// list accepts an optional ?verified=true|false filter.
func (h *handler) list(c *gin.Context) {
	var verified *bool
	if raw, ok := c.GetQuery("verified"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apperr.Respond(c, fmt.Errorf("%w: verified must be a boolean", apperr.ErrValidation))
			return
		}
		verified = &v
	}
	out, err := h.svc.List(c.Request.Context(), verified)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) create(c *gin.Context) {
	var in monument.Monument
	if err := c.ShouldBindJSON(&in); err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}
	m, err := h.svc.Create(c.Request.Context(), middleware.Subject(c), &in)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *handler) get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *handler) update(c *gin.Context) {
	var p monument.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		apperr.Respond(c, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}
	m, err := h.svc.Update(c.Request.Context(), galleryhandler.Caller(c), c.Param("id"), &p)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), galleryhandler.Caller(c), c.Param("id")); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) cover(c *gin.Context) {
	up, err := galleryhandler.ReadUpload(c, "image", h.maxUpload)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	m, err := h.svc.SetCover(c.Request.Context(), galleryhandler.Caller(c), c.Param("id"), up)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *handler) setVerified(v bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := h.svc.SetVerified(c.Request.Context(), c.Param("id"), v)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}
