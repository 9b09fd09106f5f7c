package dto

import "code2pitch.app/relay/internal/model"

const (
	InternalErrorMessage = "An internal server error occurred"
	InternalErrorType    = "InternalError"

	// ErrorTypeKey is the gin context key under which failed requests record
	// their error_type for the request log.
	ErrorTypeKey = "error_type"
)

type GenerateRequest struct {
	GitHubURL string `json:"github_url" binding:"required"`
}

// GeneratePitchRequest is the body the web frontend sends to /generate-pitch.
type GeneratePitchRequest struct {
	RepoLink string `json:"repo_link" binding:"required"`
}

type GenerateResponse = model.PitchResponse

// GeneratePitchResponse is the flat section object the frontend renders.
type GeneratePitchResponse = model.PitchSections

type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
	RequestID string `json:"request_id"`
}

type RootResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}
