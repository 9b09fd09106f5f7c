package domain

import "errors"

// Error taxonomy surfaced at the HTTP boundary. Callers wrap these with
// fmt.Errorf("...: %w", ErrX) and the handler maps them with errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrUpstreamNotFound = errors.New("upstream resource not found")
	ErrUpstreamTimeout  = errors.New("upstream timed out")
	ErrUpstreamProtocol = errors.New("upstream protocol error")
	ErrGenerationFailed = errors.New("generation failed")
)

// Kind returns the taxonomy name reported as "error_type" in error bodies.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInputError"
	case errors.Is(err, ErrUpstreamNotFound):
		return "UpstreamNotFoundError"
	case errors.Is(err, ErrUpstreamTimeout):
		return "UpstreamTimeoutError"
	case errors.Is(err, ErrUpstreamProtocol):
		return "UpstreamProtocolError"
	case errors.Is(err, ErrGenerationFailed):
		return "GenerationFailedError"
	default:
		return "InternalError"
	}
}
