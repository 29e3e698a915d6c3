// Package sse writes server-sent event streams on a gin context.
package sse

import (
	"github.com/gin-gonic/gin"

	"pickup/internal/app/pkg/ginx"
	"pickup/pkg/errorx"
)

// Send writes one event and flushes. The stream headers are written before the first
// event.
func Send(c *gin.Context, event string, data interface{}) error {
	if !c.Writer.Written() {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
	}
	c.SSEvent(event, data)
	c.Writer.Flush()
	return c.Request.Context().Err()
}

// Finish reports err. Before the first event it is a regular JSON error, afterwards an
// error event closing the stream.
func Finish(c *gin.Context, err error) {
	if err == nil || c.Request.Context().Err() != nil {
		return
	}
	if !c.Writer.Written() {
		ginx.FromError(c, err)
		return
	}
	e := errorx.Wrap(err)
	c.SSEvent("error", ginx.Meta{Code: ginx.StatusOf(e), Message: e.Message, Reason: e.Reason, Retryable: e.Retryable})
	c.Writer.Flush()
}
