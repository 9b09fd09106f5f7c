package repohost_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"code2pitch.app/relay/internal/domain"
	"code2pitch.app/relay/internal/model"
	"code2pitch.app/relay/internal/repohost"
)

type mockFetcher struct {
	fetchFn func(ctx context.Context, ref model.RepoRef) (model.RepoSnapshot, error)
	calls   []model.RepoRef
}

func (m *mockFetcher) Fetch(ctx context.Context, ref model.RepoRef) (model.RepoSnapshot, error) {
	m.calls = append(m.calls, ref)
	if m.fetchFn != nil {
		return m.fetchFn(ctx, ref)
	}
	return model.RepoSnapshot{}, nil
}

var _ = Describe("Registry", func() {
	var (
		registry *repohost.Registry
		github   *mockFetcher
		gitlab   *mockFetcher
	)

	BeforeEach(func() {
		github = &mockFetcher{}
		gitlab = &mockFetcher{}
		registry = repohost.NewRegistry()
		registry.Register("github.com", github)
		registry.Register("GitLab.com", gitlab)
	})

	It("lists registered hosts in order", func() {
		Expect(registry.Hosts()).To(Equal([]string{"github.com", "gitlab.com"}))
	})

	Describe("Locate", func() {
		It("accepts a registered host", func() {
			ref, err := registry.Locate("https://github.com/octocat/Hello-World")
			Expect(err).NotTo(HaveOccurred())
			Expect(ref.Owner).To(Equal("octocat"))
			Expect(ref.Name).To(Equal("Hello-World"))
		})

		It("rejects an unsupported host", func() {
			_, err := registry.Locate("https://bitbucket.org/team/repo")
			Expect(err).To(MatchError(domain.ErrInvalidInput))
			Expect(err.Error()).To(ContainSubstring("bitbucket.org"))
		})
	})

	Describe("Fetch", func() {
		It("dispatches by host", func() {
			github.fetchFn = func(_ context.Context, ref model.RepoRef) (model.RepoSnapshot, error) {
				return model.RepoSnapshot{Readme: "# " + ref.Name, RecentCommits: []string{"init"}}, nil
			}
			ref := model.RepoRef{Host: "github.com", Owner: "octocat", Name: "Hello-World"}

			snap, err := registry.Fetch(context.Background(), ref)
			Expect(err).NotTo(HaveOccurred())
			Expect(snap.Readme).To(Equal("# Hello-World"))
			Expect(github.calls).To(ConsistOf(ref))
			Expect(gitlab.calls).To(BeEmpty())
		})

		It("passes fetcher errors through", func() {
			gitlab.fetchFn = func(context.Context, model.RepoRef) (model.RepoSnapshot, error) {
				return model.RepoSnapshot{}, errors.Join(domain.ErrUpstreamNotFound, errors.New("README"))
			}
			_, err := registry.Fetch(context.Background(), model.RepoRef{Host: "gitlab.com", Owner: "g", Name: "p"})
			Expect(err).To(MatchError(domain.ErrUpstreamNotFound))
		})

		It("rejects refs for unknown hosts", func() {
			_, err := registry.Fetch(context.Background(), model.RepoRef{Host: "example.com", Owner: "a", Name: "b"})
			Expect(err).To(MatchError(domain.ErrInvalidInput))
		})
	})
})
