package repohost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"code2pitch.app/relay/internal/domain"
	"code2pitch.app/relay/internal/model"
	"github.com/google/go-github/v66/github"
)

const GitHubHost = "github.com"

type GitHubConfig struct {
	Token      string
	BaseURL    string // API root; empty means https://api.github.com/
	HTTPClient *http.Client
}

type GitHubFetcher struct {
	client *github.Client
}

func NewGitHubFetcher(cfg GitHubConfig) (*GitHubFetcher, error) {
	client := github.NewClient(cfg.HTTPClient)
	if cfg.Token != "" {
		client = client.WithAuthToken(cfg.Token)
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		client.BaseURL = u
	}
	return &GitHubFetcher{client: client}, nil
}

func (f *GitHubFetcher) Fetch(ctx context.Context, ref model.RepoRef) (model.RepoSnapshot, error) {
	readme, _, err := f.client.Repositories.GetReadme(ctx, ref.Owner, ref.Name, nil)
	if err != nil {
		return model.RepoSnapshot{}, githubError(err, "README")
	}

	// The contents API returns base64; GetContent decodes it.
	text, err := readme.GetContent()
	if err != nil {
		return model.RepoSnapshot{}, fmt.Errorf("%w: decoding README: %v", domain.ErrUpstreamProtocol, err)
	}

	commits, _, err := f.client.Repositories.ListCommits(ctx, ref.Owner, ref.Name, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: MaxCommits},
	})
	if err != nil {
		return model.RepoSnapshot{}, githubError(err, "commits")
	}

	messages := make([]string, 0, min(len(commits), MaxCommits))
	for _, c := range commits {
		if len(messages) == MaxCommits {
			break
		}
		messages = append(messages, c.GetCommit().GetMessage())
	}

	return model.RepoSnapshot{Readme: text, RecentCommits: messages}, nil
}

// Any non-success status is reported as not found; transport failures are not.
func githubError(err error, what string) error {
	var (
		errResp   *github.ErrorResponse
		rateErr   *github.RateLimitError
		abuseErr  *github.AbuseRateLimitError
		status    int
		hasStatus bool
	)
	switch {
	case errors.As(err, &errResp) && errResp.Response != nil:
		status, hasStatus = errResp.Response.StatusCode, true
	case errors.As(err, &rateErr) && rateErr.Response != nil:
		status, hasStatus = rateErr.Response.StatusCode, true
	case errors.As(err, &abuseErr) && abuseErr.Response != nil:
		status, hasStatus = abuseErr.Response.StatusCode, true
	}
	if hasStatus {
		return fmt.Errorf("%w: %s not found (github status %d)", domain.ErrUpstreamNotFound, what, status)
	}
	return fmt.Errorf("fetching %s from github: %w", what, err)
}
