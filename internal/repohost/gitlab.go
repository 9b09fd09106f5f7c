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
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

type GitLabConfig struct {
	Token      string
	BaseURL    string // instance root, e.g. "https://gitlab.com"
	HTTPClient *http.Client
}

type GitLabFetcher struct {
	client *gitlab.Client
	host   string
}

func NewGitLabFetcher(cfg GitLabConfig) (*GitLabFetcher, error) {
	instance, err := url.Parse(cfg.BaseURL)
	if err != nil || instance.Hostname() == "" {
		return nil, fmt.Errorf("invalid gitlab base url %q", cfg.BaseURL)
	}

	opts := []gitlab.ClientOptionFunc{
		gitlab.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/") + "/api/v4"),
		gitlab.WithoutRetries(),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, gitlab.WithHTTPClient(cfg.HTTPClient))
	}

	client, err := gitlab.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gitlab client: %w", err)
	}

	return &GitLabFetcher{
		client: client,
		host:   strings.TrimPrefix(strings.ToLower(instance.Hostname()), "www."),
	}, nil
}

// Host is the domain this fetcher should be registered under.
func (f *GitLabFetcher) Host() string {
	return f.host
}

func (f *GitLabFetcher) Fetch(ctx context.Context, ref model.RepoRef) (model.RepoSnapshot, error) {
	pid := ref.FullName()

	project, _, err := f.client.Projects.GetProject(pid, nil, gitlab.WithContext(ctx))
	if err != nil {
		return model.RepoSnapshot{}, gitlabError(err, "project")
	}

	path := readmePath(project.ReadmeURL, project.DefaultBranch)
	if path == "" {
		return model.RepoSnapshot{}, fmt.Errorf("%w: README not found", domain.ErrUpstreamNotFound)
	}

	readme, _, err := f.client.RepositoryFiles.GetRawFile(pid, path, &gitlab.GetRawFileOptions{
		Ref: gitlab.Ptr(project.DefaultBranch),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return model.RepoSnapshot{}, gitlabError(err, "README")
	}

	commits, _, err := f.client.Commits.ListCommits(pid, &gitlab.ListCommitsOptions{
		ListOptions: gitlab.ListOptions{PerPage: MaxCommits},
	}, gitlab.WithContext(ctx))
	if err != nil {
		return model.RepoSnapshot{}, gitlabError(err, "commits")
	}

	messages := make([]string, 0, min(len(commits), MaxCommits))
	for _, c := range commits {
		if len(messages) == MaxCommits {
			break
		}
		messages = append(messages, c.Message)
	}

	return model.RepoSnapshot{Readme: string(readme), RecentCommits: messages}, nil
}

// readmePath extracts the file path from a project's readme_url, e.g.
// "https://gitlab.com/g/p/-/blob/main/docs/README.md" -> "docs/README.md".
func readmePath(readmeURL, branch string) string {
	if readmeURL == "" || branch == "" {
		return ""
	}
	marker := "/-/blob/" + branch + "/"
	idx := strings.Index(readmeURL, marker)
	if idx < 0 {
		return ""
	}
	path, err := url.PathUnescape(readmeURL[idx+len(marker):])
	if err != nil {
		return ""
	}
	return path
}

func gitlabError(err error, what string) error {
	var errResp *gitlab.ErrorResponse
	switch {
	case errors.Is(err, gitlab.ErrNotFound):
		return fmt.Errorf("%w: %s not found (gitlab status 404)", domain.ErrUpstreamNotFound, what)
	case errors.As(err, &errResp) && errResp.Response != nil:
		return fmt.Errorf("%w: %s not found (gitlab status %d)", domain.ErrUpstreamNotFound, what, errResp.Response.StatusCode)
	default:
		return fmt.Errorf("fetching %s from gitlab: %w", what, err)
	}
}
