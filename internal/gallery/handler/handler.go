package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/heritage-atlas/heritage-api/internal/apperr"
	"github.com/heritage-atlas/heritage-api/internal/gallery/service"
	"github.com/heritage-atlas/heritage-api/internal/models"
	"github.com/heritage-atlas/heritage-api/pkg/middleware"
)

const (
	fileField  = "image"
	titleField = "imgTitle"

	// formOverhead is the room left for non-file fields and multipart framing.
	formOverhead = 64 << 10
)

// RegisterRoutes mounts the gallery endpoints on rg. Callers attach authentication to rg.
func RegisterRoutes(rg *gin.RouterGroup, svc *service.Service, maxUpload int64) {
	h := &handler{svc: svc, maxUpload: maxUpload}
	rg.POST("/:monumentId", h.create)
	rg.GET("/monument/:monumentId", h.listByMonument)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

type handler struct {
	svc       *service.Service
	maxUpload int64
}

func (h *handler) create(c *gin.Context) {
	up, err := ReadUpload(c, fileField, h.maxUpload)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	it, err := h.svc.Create(c.Request.Context(), Caller(c), c.Param("monumentId"), c.PostForm(titleField), up)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *handler) listByMonument(c *gin.Context) {
	views, err := h.svc.ListByMonument(c.Request.Context(), c.Param("monumentId"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *handler) get(c *gin.Context) {
	v, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *handler) update(c *gin.Context) {
	up, err := ReadUpload(c, fileField, h.maxUpload)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	var title *string
	if t, ok := c.GetPostForm(titleField); ok && t != "" {
		title = &t
	}
	it, err := h.svc.Update(c.Request.Context(), Caller(c), c.Param("id"), title, up)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), Caller(c), c.Param("id")); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Caller is the authenticated identity set by AuthMiddleware.
func Caller(c *gin.Context) models.Actor {
	return models.Actor{ID: middleware.Subject(c), Role: middleware.ClaimString(c, "role")}
}

// ReadUpload reads an optional multipart file. A missing file yields (nil, nil).
// The request body is capped before parsing so oversized uploads are never buffered.
func ReadUpload(c *gin.Context, field string, maxBytes int64) (*service.Upload, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+formOverhead)
	}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: request exceeds %d bytes", apperr.ErrValidation, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", apperr.ErrValidation, maxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
