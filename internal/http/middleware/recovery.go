package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"code2pitch.app/relay/common/logger"
	"code2pitch.app/relay/internal/http/dto"
	"github.com/gin-gonic/gin"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ctx := c.Request.Context()

				slog.ErrorContext(ctx, "panic recovered",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)

				c.Set(dto.ErrorTypeKey, dto.InternalErrorType)
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error:     dto.InternalErrorMessage,
					ErrorType: dto.InternalErrorType,
					RequestID: logger.RequestID(ctx),
				})
			}
		}()
		c.Next()
	}
}
