package public

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/heritage-atlas/heritage-api/internal/apperr"
)

// RegisterRoutes mounts the unauthenticated /public endpoints.
func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	rg.GET("/", func(c *gin.Context) {
		out, err := svc.ListVerified(c.Request.Context())
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
	rg.GET("/latest3/", func(c *gin.Context) {
		out, err := svc.ListLatest(c.Request.Context(), DefaultLatest)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
	rg.GET("/monument/:monumentId", func(c *gin.Context) {
		out, err := svc.Gallery(c.Request.Context(), c.Param("monumentId"))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
	rg.GET("/:id", func(c *gin.Context) {
		v, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	})
}
