package middleware

import (
	"github.com/gin-gonic/gin"
)

// RequestRecorder is implemented by metrics.Metrics.
type RequestRecorder interface {
	RequestStarted() func(method, route string, status int)
}

// Metrics records request count, latency and in-flight requests labelled by
// the matched route template, never the raw path.
func Metrics(recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := recorder.RequestStarted()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		done(c.Request.Method, route, c.Writer.Status())
	}
}
