package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"code2pitch.app/relay/common/logger"
	"code2pitch.app/relay/internal/domain"
	"code2pitch.app/relay/internal/http/dto"
	"code2pitch.app/relay/internal/service"
	"github.com/gin-gonic/gin"
)

type PitchHandler struct {
	pitches service.PitchService
	version string
}

func NewPitchHandler(pitches service.PitchService, version string) *PitchHandler {
	return &PitchHandler{pitches: pitches, version: version}
}

func (h *PitchHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: request body must be {\"github_url\": \"<url>\"}", domain.ErrInvalidInput))
		return
	}

	resp, err := h.pitches.Generate(ctx, strings.TrimSpace(req.GitHubURL))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GeneratePitch serves the web frontend, which expects the sections at the top level.
func (h *PitchHandler) GeneratePitch(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GeneratePitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: request body must be {\"repo_link\": \"<url>\"}", domain.ErrInvalidInput))
		return
	}

	resp, err := h.pitches.Generate(ctx, strings.TrimSpace(req.RepoLink))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.GeneratePitchResponse(resp.Data))
}

func (h *PitchHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.RootResponse{
		Name:        "Code2Pitch API",
		Version:     h.version,
		Description: "Generate pitch materials from GitHub repositories",
		Endpoints: map[string]string{
			"generate":       "/generate",
			"generate_pitch": "/generate-pitch",
			"ping":           "/ping",
			"health":         "/health",
		},
	})
}

func (h *PitchHandler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUpstreamNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	status := statusFor(err)
	kind := domain.Kind(err)

	message := err.Error()
	if kind == dto.InternalErrorType {
		message = dto.InternalErrorMessage
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "pitch request failed", "status", status, "error_type", kind, "error", err)
	} else {
		slog.WarnContext(ctx, "pitch request rejected", "status", status, "error_type", kind, "error", err)
	}

	_ = c.Error(err)
	c.Set(dto.ErrorTypeKey, kind)
	c.JSON(status, dto.ErrorResponse{
		Error:     message,
		ErrorType: kind,
		RequestID: logger.RequestID(ctx),
	})
}
