package generation

import (
	"context"
	"time"

	"code2pitch.app/relay/core/config"
)

type Config struct {
	ContentRetries    int           // outer loop: full generate+validate rounds
	MaxRetries        int           // inner loop: upstream calls per round
	RequestTimeout    time.Duration // per upstream call
	ProbeTimeout      time.Duration // liveness probe; zero disables probing
	ContentRetryDelay time.Duration // pause between rounds
	BackoffJitter     time.Duration // max random addition to timeout backoff
}

func DefaultConfig() Config {
	return Config{
		ContentRetries:    2,
		MaxRetries:        3,
		RequestTimeout:    60 * time.Second,
		ProbeTimeout:      10 * time.Second,
		ContentRetryDelay: 2 * time.Second,
		BackoffJitter:     500 * time.Millisecond,
	}
}

// ConfigFrom maps the process configuration onto the loop parameters.
func ConfigFrom(c config.GenerationConfig) Config {
	return Config{
		ContentRetries:    c.ContentRetries,
		MaxRetries:        c.MaxRetries,
		RequestTimeout:    c.RequestTimeout,
		ProbeTimeout:      c.ProbeTimeout,
		ContentRetryDelay: c.ContentRetryDelay,
		BackoffJitter:     c.BackoffJitter,
	}
}

// Sleeper waits for d or until ctx is done, returning ctx.Err() in the latter case.
type Sleeper func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WorstCase bounds how long Generate can take when every call runs to its
// timeout. The HTTP server's write timeout must exceed it.
func (c Config) WorstCase() time.Duration {
	rounds := max(c.ContentRetries, 1)
	inner := max(c.MaxRetries, 1)

	perRound := time.Duration(inner) * (c.RequestTimeout + c.ProbeTimeout)
	for attempt := 1; attempt < inner; attempt++ {
		perRound += time.Duration(1<<(attempt-1))*time.Second + c.BackoffJitter
	}
	return time.Duration(rounds)*perRound + time.Duration(rounds-1)*c.ContentRetryDelay
}
