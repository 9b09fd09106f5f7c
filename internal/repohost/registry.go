package repohost

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"code2pitch.app/relay/common/logger"
	"code2pitch.app/relay/internal/domain"
	"code2pitch.app/relay/internal/model"
	"go.opentelemetry.io/otel/attribute"
)

// MaxCommits is how many recent commits are requested from a host.
const MaxCommits = 5

// Fetcher loads README and recent commits for one repository. It makes two
// sequential calls and never retries.
type Fetcher interface {
	Fetch(ctx context.Context, ref model.RepoRef) (model.RepoSnapshot, error)
}

// Registry locates repositories and dispatches fetches by host.
type Registry struct {
	fetchers map[string]Fetcher
}

func NewRegistry() *Registry {
	return &Registry{fetchers: make(map[string]Fetcher)}
}

// Register binds a fetcher to a hosting domain such as "github.com".
func (r *Registry) Register(host string, f Fetcher) {
	r.fetchers[strings.ToLower(host)] = f
}

func (r *Registry) Hosts() []string {
	hosts := make([]string, 0, len(r.fetchers))
	for h := range r.fetchers {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}

// Locate parses raw and checks that its host has a registered fetcher.
func (r *Registry) Locate(raw string) (model.RepoRef, error) {
	ref, err := ParseURL(raw)
	if err != nil {
		return model.RepoRef{}, err
	}
	if _, ok := r.fetchers[ref.Host]; !ok {
		return model.RepoRef{}, fmt.Errorf("%w: unsupported repository host %q (supported: %s)",
			domain.ErrInvalidInput, ref.Host, strings.Join(r.Hosts(), ", "))
	}
	return ref, nil
}

func (r *Registry) Fetch(ctx context.Context, ref model.RepoRef) (model.RepoSnapshot, error) {
	f, ok := r.fetchers[ref.Host]
	if !ok {
		return model.RepoSnapshot{}, fmt.Errorf("%w: unsupported repository host %q", domain.ErrInvalidInput, ref.Host)
	}

	sc := logger.StartSpan(ctx, "repohost.fetch",
		attribute.String("repo.host", ref.Host),
		attribute.String("repo.full_name", ref.FullName()))
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	snapshot, err := f.Fetch(ctx, ref)
	if err != nil {
		sc.RecordError(err)
		return model.RepoSnapshot{}, err
	}

	sc.SetAttributes(
		attribute.Int("repo.readme_chars", len(snapshot.Readme)),
		attribute.Int("repo.commits", len(snapshot.RecentCommits)))
	slog.InfoContext(ctx, "repository data fetched",
		"readme_chars", len(snapshot.Readme),
		"commits", len(snapshot.RecentCommits),
		"duration_ms", time.Since(start).Milliseconds())

	return snapshot, nil
}
