package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edutrack/edutrack-api/internal/service"
)

// Metrics observes every request on the metrics service. The route template
// is used as the path label so ids do not explode cardinality.
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
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
