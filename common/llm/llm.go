package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Provider constants for generation provider selection.
const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
)

var (
	// ErrMalformedResponse means the upstream answered but the body did not
	// have the expected structure.
	ErrMalformedResponse = errors.New("malformed generation response")
	// ErrModelUnavailable is returned by Probe when the model endpoint does not exist.
	ErrModelUnavailable = errors.New("generation model unavailable")
)

// Config holds generation client configuration.
type Config struct {
	Provider   string       // "huggingface", "openai" or "anthropic"
	APIKey     string       // Required: API key for the provider
	BaseURL    string       // Optional: custom API endpoint
	Model      string       // Model name; provider default when empty
	HTTPClient *http.Client // Optional: shared process-wide client
}

// Sampling mirrors the text-generation parameters forwarded upstream.
type Sampling struct {
	MaxLength         int     `json:"max_length"`
	MinLength         int     `json:"min_length"`
	DoSample          bool    `json:"do_sample"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	TopK              int     `json:"top_k"`
	NumBeams          int     `json:"num_beams"`
	NoRepeatNgramSize int     `json:"no_repeat_ngram_size"`
	LengthPenalty     float64 `json:"length_penalty"`
}

type Request struct {
	Prompt   string
	Sampling Sampling
}

// Generator produces raw text for a prompt. Implementations make exactly one
// upstream call per Generate; retries belong to the caller.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Model() string
}

// Prober is implemented by generators that expose a cheap liveness check.
type Prober interface {
	Probe(ctx context.Context) error
}

// StatusError is a non-success HTTP status from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// NewGenerator selects the provider based on cfg.Provider. Defaults to HuggingFace.
func NewGenerator(cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		provider = ProviderHuggingFace
	}

	switch provider {
	case ProviderHuggingFace:
		return newHuggingFaceGenerator(cfg), nil
	case ProviderOpenAI:
		return newOpenAIGenerator(cfg), nil
	case ProviderAnthropic:
		return newAnthropicGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Provider)
	}
}

const chatSystemPrompt = "You write pitch material for software projects. " +
	"Answer with the requested section headers exactly as given, each on its own line, followed by the section text."
