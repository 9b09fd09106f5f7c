package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"code2pitch.app/relay/common/llm"
	"code2pitch.app/relay/common/logger"
	"code2pitch.app/relay/internal/domain"
	"code2pitch.app/relay/internal/model"
	"code2pitch.app/relay/internal/sections"
	"go.opentelemetry.io/otel/attribute"
)

// Result is a parsed pitch. When Valid is false the sections outside their
// word-count band were replaced with placeholders and listed in InvalidSections.
type Result struct {
	Sections        model.PitchSections
	Attempts        int
	Valid           bool
	InvalidSections []string
}

// Client runs the generate/validate loop around a single llm.Generator.
type Client struct {
	gen    llm.Generator
	cfg    Config
	sleep  Sleeper
	jitter func() float64
}

type Option func(*Client)

func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// WithJitter replaces the [0,1) source used to spread timeout backoff.
func WithJitter(f func() float64) Option {
	return func(c *Client) { c.jitter = f }
}

func NewClient(gen llm.Generator, cfg Config, opts ...Option) *Client {
	if cfg.ContentRetries < 1 {
		cfg.ContentRetries = 1
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	c := &Client{
		gen:    gen,
		cfg:    cfg,
		sleep:  Sleep,
		jitter: rand.Float64,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Model() string {
	return c.gen.Model()
}

// Generate calls the model until it returns four sections within their bands,
// making at most ContentRetries*MaxRetries upstream calls.
func (c *Client) Generate(ctx context.Context, req model.GenerationRequest) (*Result, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "relay.generation"})
	start := time.Now()
	attempts := 0

	for round := 1; round <= c.cfg.ContentRetries; round++ {
		final := round == c.cfg.ContentRetries

		res, calls := c.callUntilText(ctx, req, round)
		attempts += calls

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
		}

		if res.failed() {
			if final {
				slog.ErrorContext(ctx, "generation failed after all attempts",
					"attempts", attempts,
					"last_failure", res.kind.String(),
					"error", res.err)
				return nil, surface(res)
			}
			slog.WarnContext(ctx, "generation round exhausted, starting next round",
				"round", round,
				"last_failure", res.kind.String())
			if err := c.sleep(ctx, c.cfg.ContentRetryDelay); err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
			}
			continue
		}

		parsed := sections.Parse(res.text)
		invalid := sections.Invalid(parsed)
		if len(invalid) == 0 {
			slog.InfoContext(ctx, "pitch generated",
				"attempts", attempts,
				"duration_ms", time.Since(start).Milliseconds())
			return &Result{Sections: parsed, Attempts: attempts, Valid: true}, nil
		}

		if final {
			slog.WarnContext(ctx, "returning best-effort pitch",
				"attempts", attempts,
				"invalid_sections", invalid)
			return &Result{
				Sections:        sections.BestEffort(parsed),
				Attempts:        attempts,
				InvalidSections: invalid,
			}, nil
		}

		slog.InfoContext(ctx, "generated sections outside word bands, regenerating",
			"round", round,
			"invalid_sections", invalid)
		if err := c.sleep(ctx, c.cfg.ContentRetryDelay); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
		}
	}

	// Unreachable: the final round always returns.
	return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, errNoAttempts)
}

// callUntilText is the inner loop. It returns the first successful result or
// the last failure, plus the number of attempts made.
func (c *Client) callUntilText(ctx context.Context, req model.GenerationRequest, round int) (attemptResult, int) {
	last := attemptResult{kind: kindFailure, err: errNoAttempts}
	calls := 0

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return attemptResult{kind: kindFailure, err: err}, calls
		}

		last = c.attempt(ctx, req, round, attempt)
		calls++

		switch last.kind {
		case kindSuccess:
			return last, calls
		case kindTimeout:
			slog.WarnContext(ctx, "generation request timed out", "attempt", attempt)
			if attempt < c.cfg.MaxRetries {
				wait := c.backoff(attempt)
				slog.InfoContext(ctx, "backing off before retry", "wait_ms", wait.Milliseconds())
				if err := c.sleep(ctx, wait); err != nil {
					return attemptResult{kind: kindFailure, err: err}, calls
				}
			}
		default:
			slog.WarnContext(ctx, "generation attempt failed, retrying",
				"attempt", attempt,
				"kind", last.kind.String(),
				"error", last.err)
		}
	}

	return last, calls
}

func (c *Client) attempt(ctx context.Context, req model.GenerationRequest, round, attempt int) attemptResult {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Attempt: logger.Ptr((round-1)*c.cfg.MaxRetries + attempt)})

	sc := logger.StartSpan(ctx, "generation.attempt",
		attribute.Int("generation.round", round),
		attribute.Int("generation.attempt", attempt),
		attribute.String("generation.model", c.gen.Model()))
	defer sc.End()
	ctx = sc.Context()

	slog.DebugContext(ctx, "generation attempt", "round", round, "attempt", attempt)

	if err := c.probe(ctx); err != nil {
		sc.RecordError(err)
		return attemptResult{kind: kindFailure, err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	text, err := c.gen.Generate(callCtx, llm.Request{
		Prompt:   req.Prompt,
		Sampling: llm.Sampling(req.Parameters),
	})
	res := classify(text, err)
	if res.failed() {
		sc.RecordError(err)
	}
	sc.SetAttributes(attribute.String("generation.outcome", res.kind.String()))
	return res
}

// probe checks model liveness when the provider supports it. Only an
// unavailable model fails the attempt; anything else is logged and ignored.
func (c *Client) probe(ctx context.Context) error {
	p, ok := c.gen.(llm.Prober)
	if !ok || c.cfg.ProbeTimeout <= 0 {
		return nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout)
	defer cancel()

	err := p.Probe(probeCtx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, llm.ErrModelUnavailable):
		slog.WarnContext(ctx, "generation model unavailable", "model", c.gen.Model())
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	case llm.IsTimeout(err):
		slog.WarnContext(ctx, "model status check timed out, proceeding with generation attempt")
		return nil
	default:
		slog.WarnContext(ctx, "model status check failed, proceeding with generation attempt", "error", err)
		return nil
	}
}

// backoff is 2^(attempt-1) seconds plus up to BackoffJitter.
func (c *Client) backoff(attempt int) time.Duration {
	base := time.Duration(1<<(attempt-1)) * time.Second
	return base + time.Duration(c.jitter()*float64(c.cfg.BackoffJitter))
}

func surface(res attemptResult) error {
	switch res.kind {
	case kindTimeout:
		return fmt.Errorf("%w: request timed out after multiple retries: %w", domain.ErrUpstreamTimeout, res.err)
	case kindProtocol:
		return fmt.Errorf("%w: %w", domain.ErrUpstreamProtocol, res.err)
	default:
		return fmt.Errorf("%w: failed to generate valid pitch content after multiple attempts: %w", domain.ErrGenerationFailed, res.err)
	}
}
