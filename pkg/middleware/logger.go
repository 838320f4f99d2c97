package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/heritage-atlas/heritage-api/pkg/logger"
)

// RequestLogger logs method, route, status and latency for every request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		switch {
		case status >= 500:
			logger.Errorf("%s %s %d %s", c.Request.Method, route, status, time.Since(start))
		case status >= 400:
			logger.Warnf("%s %s %d %s", c.Request.Method, route, status, time.Since(start))
		default:
			logger.Infof("%s %s %d %s", c.Request.Method, route, status, time.Since(start))
		}
	}
}
