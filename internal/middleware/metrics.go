package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-seating-api/internal/service"
)

// UnmatchedRoute is the path label of requests that hit no registered route.
const UnmatchedRoute = "unmatched"

// Metrics records method, route pattern and status for every request. Seat map and layout
// routes are labelled by pattern (/rooms/:id/seats), never by the concrete id.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = UnmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
