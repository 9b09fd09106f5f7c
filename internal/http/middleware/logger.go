package middleware

import (
	"log/slog"
	"time"

	"code2pitch.app/relay/internal/http/dto"
	"github.com/gin-gonic/gin"
)

// Logger writes one line per request once the handler chain has finished.
// The route is the registered pattern, so unmatched paths log as "unmatched"
// and query strings never reach the log.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		ctx := c.Request.Context()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		attrs := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"response_bytes", c.Writer.Size(),
		}
		if origin := c.GetHeader("Origin"); origin != "" {
			attrs = append(attrs, "origin", origin)
		}
		if kind := c.GetString(dto.ErrorTypeKey); kind != "" {
			attrs = append(attrs, "error_type", kind)
		}

		switch {
		case status >= 500:
			slog.ErrorContext(ctx, "relay request failed", attrs...)
		case status >= 400:
			slog.WarnContext(ctx, "relay request rejected", attrs...)
		default:
			slog.InfoContext(ctx, "relay request served", attrs...)
		}
	}
}
