package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pickup/pkg/logger"
)

// RequestIDHeader carries the trace id in and out.
const RequestIDHeader = "X-Request-ID"

// Logger assigns a trace id to every request and writes one access log line.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		traceID := c.GetHeader(RequestIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Header(RequestIDHeader, traceID)
		ctx := logger.WithTraceID(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		line := "[HTTP] %s %s %d %s"
		args := []interface{}{c.Request.Method, c.FullPath(), status, time.Since(start)}
		switch {
		case status >= 500:
			log.Errorf(ctx, line, args...)
		case status >= 400:
			log.Warnf(ctx, line, args...)
		default:
			log.Infof(ctx, line, args...)
		}
	}
}
