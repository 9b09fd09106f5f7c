package repohost_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"code2pitch.app/relay/internal/domain"
	"code2pitch.app/relay/internal/model"
	"code2pitch.app/relay/internal/repohost"
)

var _ = Describe("GitLabFetcher", func() {
	var (
		server  *httptest.Server
		routes  map[string]http.HandlerFunc
		fetcher *repohost.GitLabFetcher
		ref     model.RepoRef
		rawRef  string
		perPage string
	)

	BeforeEach(func() {
		rawRef = ""
		perPage = ""
		routes = map[string]http.HandlerFunc{}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The project id is path-escaped, so route on the raw path.
			if h, ok := routes[r.URL.EscapedPath()]; ok {
				h(w, r)
				return
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"404 Not Found"}`))
		}))

		var err error
		fetcher, err = repohost.NewGitLabFetcher(repohost.GitLabConfig{
			Token:   "gl-token",
			BaseURL: server.URL,
		})
		Expect(err).NotTo(HaveOccurred())
		ref = model.RepoRef{Host: "gitlab.com", Owner: "group", Name: "project"}
	})

	AfterEach(func() {
		server.Close()
	})

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	serveProject := func(readmeURL string) {
		routes["/api/v4/projects/group%2Fproject"] = func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{
				"id":             42,
				"default_branch": "main",
				"readme_url":     readmeURL,
			})
		}
	}

	serveCommits := func() {
		routes["/api/v4/projects/group%2Fproject/repository/commits"] = func(w http.ResponseWriter, r *http.Request) {
			perPage = r.URL.Query().Get("per_page")
			writeJSON(w, []map[string]any{
				{"id": "a1", "message": "Add CI"},
				{"id": "b2", "message": "Initial commit"},
			})
		}
	}

	It("derives the host from the base URL", func() {
		Expect(fetcher.Host()).To(Equal("127.0.0.1"))
	})

	It("resolves the README path from the project and fetches the raw file", func() {
		serveProject("https://gitlab.com/group/project/-/blob/main/docs/README.md")
		routes["/api/v4/projects/group%2Fproject/repository/files/docs%2FREADME%2Emd/raw"] = func(w http.ResponseWriter, r *http.Request) {
			rawRef = r.URL.Query().Get("ref")
			_, _ = w.Write([]byte("# Project\nDocs."))
		}
		serveCommits()

		snap, err := fetcher.Fetch(context.Background(), ref)
		Expect(err).NotTo(HaveOccurred())
		Expect(snap.Readme).To(Equal("# Project\nDocs."))
		Expect(snap.RecentCommits).To(Equal([]string{"Add CI", "Initial commit"}))
		Expect(rawRef).To(Equal("main"))
		Expect(perPage).To(Equal("5"))
	})

	It("reports a project without a README as not found", func() {
		serveProject("")
		serveCommits()

		_, err := fetcher.Fetch(context.Background(), ref)
		Expect(err).To(MatchError(domain.ErrUpstreamNotFound))
		Expect(err.Error()).To(ContainSubstring("README not found"))
	})

	It("reports an unknown project as not found", func() {
		_, err := fetcher.Fetch(context.Background(), model.RepoRef{Host: "gitlab.com", Owner: "nobody", Name: "nothing"})
		Expect(err).To(MatchError(domain.ErrUpstreamNotFound))
	})
})
