package middleware

import (
	"code2pitch.app/relay/common/id"
	"code2pitch.app/relay/common/logger"
	"github.com/gin-gonic/gin"
)

const RequestIDHeader = "X-Request-ID"

// RequestID assigns a fresh id to every request. The id is echoed in the
// X-Request-ID header and stored in the context log fields, where handlers
// and every log line of the request pick it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := id.NewRequestID()

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
			RequestID: logger.Ptr(requestID),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
