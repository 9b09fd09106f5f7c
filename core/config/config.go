package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel           OTelConfig
	GitHub         GitHubConfig
	GitLab         GitLabConfig
	Generation     GenerationConfig
	Prompt         PromptConfig
	Events         EventsConfig
	Env            string
	Port           string
	Version        string
	AllowedOrigins []string
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type GitHubConfig struct {
	Token   string
	BaseURL string // Optional: GitHub Enterprise API root
}

type GitLabConfig struct {
	Token   string
	BaseURL string // e.g. "https://gitlab.com"
}

type GenerationConfig struct {
	Provider          string // "huggingface", "openai" or "anthropic"
	APIKey            string
	BaseURL           string
	Model             string
	ContentRetries    int
	MaxRetries        int
	RequestTimeout    time.Duration
	ProbeTimeout      time.Duration
	ContentRetryDelay time.Duration
	BackoffJitter     time.Duration
}

type PromptConfig struct {
	ReadmeChars int
	CleanReadme bool
}

type EventsConfig struct {
	RedisURL    string
	RedisStream string
}

const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
)

var defaultOrigins = []string{
	"https://code2pitch-ai.vercel.app",
	"http://localhost:3000",
	"http://localhost:4000",
}

// Load loads configuration from environment variables.
// In development, values are read from .env first when it exists.
func Load() (Config, error) {
	if getEnv("APP_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:            getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8000"),
		Version:        getEnv("APP_VERSION", "1.0.0"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", defaultOrigins),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "code2pitch"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		GitHub: GitHubConfig{
			Token:   getEnv("GITHUB_TOKEN", ""),
			BaseURL: getEnv("GITHUB_API_URL", ""),
		},
		GitLab: GitLabConfig{
			Token:   getEnv("GITLAB_TOKEN", ""),
			BaseURL: getEnv("GITLAB_BASE_URL", "https://gitlab.com"),
		},
		Generation: GenerationConfig{
			Provider:          strings.ToLower(getEnv("GENERATION_PROVIDER", ProviderHuggingFace)),
			APIKey:            firstEnv("GENERATION_API_KEY", "HUGGINGFACE_API_KEY", "HF_API_KEY"),
			BaseURL:           getEnv("GENERATION_BASE_URL", ""),
			Model:             getEnv("GENERATION_MODEL", ""),
			ContentRetries:    getEnvInt("GENERATION_CONTENT_RETRIES", 2),
			MaxRetries:        getEnvInt("GENERATION_MAX_RETRIES", 3),
			RequestTimeout:    getEnvDuration("GENERATION_TIMEOUT", 60*time.Second),
			ProbeTimeout:      getEnvDuration("GENERATION_PROBE_TIMEOUT", 10*time.Second),
			ContentRetryDelay: getEnvDuration("GENERATION_CONTENT_RETRY_DELAY", 2*time.Second),
			BackoffJitter:     getEnvDuration("GENERATION_BACKOFF_JITTER", 500*time.Millisecond),
		},
		Prompt: PromptConfig{
			ReadmeChars: getEnvInt("PROMPT_README_CHARS", 1500),
			CleanReadme: getEnvBool("PROMPT_CLEAN_README", false),
		},
		Events: EventsConfig{
			RedisURL:    getEnv("REDIS_URL", ""),
			RedisStream: getEnv("REDIS_STREAM", "pitch_events"),
		},
	}

	if err := cfg.Generation.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c GenerationConfig) validate() error {
	switch c.Provider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported GENERATION_PROVIDER: %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("GENERATION_API_KEY (or HUGGINGFACE_API_KEY) is required")
	}
	if c.ContentRetries < 1 || c.MaxRetries < 1 {
		return fmt.Errorf("GENERATION_CONTENT_RETRIES and GENERATION_MAX_RETRIES must be at least 1")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c GitLabConfig) Enabled() bool {
	return c.BaseURL != ""
}

func (c EventsConfig) Enabled() bool {
	return c.RedisURL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
