package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// The request middleware sets RequestID; the pitch service adds the repository
// once the URL is parsed, so every later log line carries both.
type LogFields struct {
	RequestID *string // X-Request-ID of the inbound request
	RepoHost  *string // Hosting domain, e.g. "github.com"
	RepoOwner *string
	RepoName  *string
	Attempt   *int   // Generation attempt number (1-based, across all retries)
	Component string // Component name, e.g. "relay.generation"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

// RequestID returns the request id stored in ctx, or "" when there is none.
func RequestID(ctx context.Context) string {
	if id := GetLogFields(ctx).RequestID; id != nil {
		return *id
	}
	return ""
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.RequestID != nil {
		result.RequestID = new.RequestID
	}
	if new.RepoHost != nil {
		result.RepoHost = new.RepoHost
	}
	if new.RepoOwner != nil {
		result.RepoOwner = new.RepoOwner
	}
	if new.RepoName != nil {
		result.RepoName = new.RepoName
	}
	if new.Attempt != nil {
		result.Attempt = new.Attempt
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{RequestID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen runes, appending "..." if truncated.
// Useful for logging potentially long strings like prompts or upstream bodies.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i] + "..."
		}
		n++
	}
	return s
}
