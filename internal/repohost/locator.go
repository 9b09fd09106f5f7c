package repohost

import (
	"fmt"
	"net/url"
	"strings"

	"code2pitch.app/relay/internal/domain"
	"code2pitch.app/relay/internal/model"
)

// ParseURL extracts (host, owner, repo) from a <host>/<owner>/<repo> URL.
// The scheme is optional; "www.", a trailing ".git", extra path segments,
// query and fragment are ignored.
func ParseURL(raw string) (model.RepoRef, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.RepoRef{}, fmt.Errorf("%w: repository URL is empty", domain.ErrInvalidInput)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return model.RepoRef{}, fmt.Errorf("%w: %q is not a valid URL", domain.ErrInvalidInput, raw)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return model.RepoRef{}, fmt.Errorf("%w: %q has no host", domain.ErrInvalidInput, raw)
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return model.RepoRef{}, fmt.Errorf("%w: %q is not a <host>/<owner>/<repo> URL", domain.ErrInvalidInput, raw)
	}

	name := strings.TrimSuffix(segments[1], ".git")
	if name == "" {
		return model.RepoRef{}, fmt.Errorf("%w: %q has an empty repository name", domain.ErrInvalidInput, raw)
	}

	return model.RepoRef{Host: host, Owner: segments[0], Name: name}, nil
}
