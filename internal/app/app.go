// Package app wires the process-scoped dependencies shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"code2pitch.app/relay/common/llm"
	"code2pitch.app/relay/core/config"
	"code2pitch.app/relay/internal/generation"
	"code2pitch.app/relay/internal/prompt"
	"code2pitch.app/relay/internal/queue"
	"code2pitch.app/relay/internal/repohost"
	"code2pitch.app/relay/internal/service"
	"github.com/redis/go-redis/v9"
)

const repoHostTimeout = 30 * time.Second

type App struct {
	Services  *service.Services
	Repos     *repohost.Registry
	Generator *generation.Client
	Producer  queue.Producer
	Redis     *redis.Client // nil when pitch events are disabled
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	repos, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}

	// Generation calls are bounded per attempt by context, not by the client.
	gen, err := llm.NewGenerator(llm.Config{
		Provider:   cfg.Generation.Provider,
		APIKey:     cfg.Generation.APIKey,
		BaseURL:    cfg.Generation.BaseURL,
		Model:      cfg.Generation.Model,
		HTTPClient: &http.Client{},
	})
	if err != nil {
		return nil, fmt.Errorf("creating generator: %w", err)
	}
	generator := generation.NewClient(gen, generation.ConfigFrom(cfg.Generation))
	slog.InfoContext(ctx, "generation provider configured",
		"provider", cfg.Generation.Provider,
		"model", gen.Model())

	a := &App{
		Repos:     repos,
		Generator: generator,
		Producer:  queue.NewNoopProducer(),
	}

	if cfg.Events.Enabled() {
		client, err := NewRedis(ctx, cfg.Events)
		if err != nil {
			return nil, err
		}
		a.Redis = client
		a.Producer = queue.NewRedisProducer(client, cfg.Events.RedisStream, slog.Default())
		slog.InfoContext(ctx, "pitch events enabled", "stream", cfg.Events.RedisStream)
	}

	a.Services = service.NewServices(repos, generator, a.Producer, prompt.Options{
		ReadmeChars: cfg.Prompt.ReadmeChars,
		CleanReadme: cfg.Prompt.CleanReadme,
	})

	return a, nil
}

func (a *App) Close() error {
	return a.Producer.Close()
}

// NewRedis parses the URL and pings the server.
func NewRedis(ctx context.Context, cfg config.EventsConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

func newRegistry(cfg config.Config) (*repohost.Registry, error) {
	httpClient := &http.Client{Timeout: repoHostTimeout}
	registry := repohost.NewRegistry()

	github, err := repohost.NewGitHubFetcher(repohost.GitHubConfig{
		Token:      cfg.GitHub.Token,
		BaseURL:    cfg.GitHub.BaseURL,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, err
	}
	registry.Register(repohost.GitHubHost, github)

	if cfg.GitLab.Enabled() {
		gitlab, err := repohost.NewGitLabFetcher(repohost.GitLabConfig{
			Token:      cfg.GitLab.Token,
			BaseURL:    cfg.GitLab.BaseURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		registry.Register(gitlab.Host(), gitlab)
	}

	return registry, nil
}
