package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"personal-assistant/pkg/log"
)

// TraceIDHeader carries the request trace id in and out.
const TraceIDHeader = "X-Request-ID"

// Trace puts a trace id on the request context so every log line of the
// request carries it. An incoming X-Request-ID is reused.
func (mw Middleware) Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Request = c.Request.WithContext(log.WithTraceID(c.Request.Context(), traceID))
		c.Header(TraceIDHeader, traceID)
		c.Next()
	}
}
