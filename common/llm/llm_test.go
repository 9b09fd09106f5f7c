package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"code2pitch.app/relay/common/llm"
)

var _ = Describe("NewGenerator", func() {
	It("requires an API key", func() {
		_, err := llm.NewGenerator(llm.Config{Provider: llm.ProviderOpenAI})
		Expect(err).To(MatchError(ContainSubstring("API key is required")))
	})

	It("rejects unknown providers", func() {
		_, err := llm.NewGenerator(llm.Config{Provider: "cohere", APIKey: "k"})
		Expect(err).To(MatchError(ContainSubstring("unsupported generation provider")))
	})

	DescribeTable("selects the provider and its default model",
		func(provider, model string) {
			g, err := llm.NewGenerator(llm.Config{Provider: provider, APIKey: "k"})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Model()).To(Equal(model))
		},
		Entry("default", "", "facebook/bart-large-cnn"),
		Entry("huggingface", "huggingface", "facebook/bart-large-cnn"),
		Entry("openai", "openai", "gpt-4o-mini"),
		Entry("anthropic", "Anthropic", "claude-sonnet-4-5-20250929"),
	)
})

var _ = Describe("HuggingFace generator", func() {
	var (
		ctx     context.Context
		server  *httptest.Server
		handler http.HandlerFunc
		gen     llm.Generator
	)

	BeforeEach(func() {
		ctx = context.Background()
		handler = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		var err error
		gen, err = llm.NewGenerator(llm.Config{
			Provider:   llm.ProviderHuggingFace,
			APIKey:     "hf-key",
			BaseURL:    server.URL + "/models/",
			Model:      "org/model",
			HTTPClient: server.Client(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	It("posts the prompt and sampling parameters", func() {
		var got map[string]any
		handler = func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/models/org/model"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer hf-key"))
			body, _ := io.ReadAll(r.Body)
			Expect(json.Unmarshal(body, &got)).To(Succeed())
			_, _ = w.Write([]byte(`[{"generated_text":"Tagline:\nhello"}]`))
		}

		text, err := gen.Generate(ctx, llm.Request{
			Prompt:   "pitch this",
			Sampling: llm.Sampling{MaxLength: 3072, DoSample: true, TopK: 50, NumBeams: 5},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Tagline:\nhello"))
		Expect(got["inputs"]).To(Equal("pitch this"))
		params := got["parameters"].(map[string]any)
		Expect(params["max_length"]).To(BeNumerically("==", 3072))
		Expect(params["do_sample"]).To(BeTrue())
		Expect(params["num_beams"]).To(BeNumerically("==", 5))
	})

	It("accepts summarization output", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"summary_text":"short"}]`))
		}
		Expect(gen.Generate(ctx, llm.Request{})).To(Equal("short"))
	})

	DescribeTable("flags malformed bodies",
		func(body string) {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}
			_, err := gen.Generate(ctx, llm.Request{})
			Expect(llm.IsMalformed(err)).To(BeTrue())
		},
		Entry("not json", `<html>oops</html>`),
		Entry("object instead of list", `{"generated_text":"x"}`),
		Entry("empty list", `[]`),
		Entry("unknown shape", `[{"label":"x"}]`),
	)

	It("returns a StatusError for non-200 responses", func() {
		handler = func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is loading"}`))
		}
		_, err := gen.Generate(ctx, llm.Request{})

		var statusErr *llm.StatusError
		Expect(errors.As(err, &statusErr)).To(BeTrue())
		Expect(statusErr.StatusCode).To(Equal(http.StatusServiceUnavailable))
		Expect(llm.IsMalformed(err)).To(BeFalse())
		Expect(llm.IsTimeout(err)).To(BeFalse())
	})

	It("reports timeouts", func() {
		release := make(chan struct{})
		handler = func(w http.ResponseWriter, _ *http.Request) {
			<-release
		}
		defer close(release)

		callCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := gen.Generate(callCtx, llm.Request{})
		Expect(llm.IsTimeout(err)).To(BeTrue())
	})

	Describe("Probe", func() {
		It("reports a missing model", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.Method).To(Equal(http.MethodGet))
				w.WriteHeader(http.StatusNotFound)
			}
			err := gen.(llm.Prober).Probe(ctx)
			Expect(errors.Is(err, llm.ErrModelUnavailable)).To(BeTrue())
		})

		It("treats other statuses as alive", func() {
			handler = func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
			Expect(gen.(llm.Prober).Probe(ctx)).To(Succeed())
		})
	})
})

var _ = Describe("OpenAI generator", func() {
	It("returns the first choice's content", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(HaveSuffix("/chat/completions"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
				"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Tagline:\nhi there"}}],
				"usage":{"prompt_tokens":3,"completion_tokens":4,"total_tokens":7}}`))
		}))
		defer server.Close()

		gen, err := llm.NewGenerator(llm.Config{Provider: llm.ProviderOpenAI, APIKey: "k", BaseURL: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())

		text, err := gen.Generate(context.Background(), llm.Request{Prompt: "p", Sampling: llm.Sampling{DoSample: true, Temperature: 0.8}})
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Tagline:\nhi there"))
	})

	It("flags responses without choices as malformed", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`))
		}))
		defer server.Close()

		gen, err := llm.NewGenerator(llm.Config{Provider: llm.ProviderOpenAI, APIKey: "k", BaseURL: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.Generate(context.Background(), llm.Request{Prompt: "p"})
		Expect(llm.IsMalformed(err)).To(BeTrue())
	})

	It("flags a body that is not JSON as malformed", func() {
		server := httptest.NewServer(http.HandlerFunc(htmlBody))
		defer server.Close()

		gen, err := llm.NewGenerator(llm.Config{Provider: llm.ProviderOpenAI, APIKey: "k", BaseURL: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.Generate(context.Background(), llm.Request{Prompt: "p"})
		Expect(err).To(HaveOccurred())
		Expect(llm.IsMalformed(err)).To(BeTrue())
		Expect(llm.IsTimeout(err)).To(BeFalse())
	})
})

var _ = Describe("Anthropic generator", func() {
	It("concatenates text blocks", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Path).To(HaveSuffix("/v1/messages"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"m1","type":"message","role":"assistant","model":"claude",
				"content":[{"type":"text","text":"Tagline:\n"},{"type":"text","text":"ship it"}],
				"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":2}}`))
		}))
		defer server.Close()

		gen, err := llm.NewGenerator(llm.Config{Provider: llm.ProviderAnthropic, APIKey: "k", BaseURL: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())

		text, err := gen.Generate(context.Background(), llm.Request{Prompt: "p", Sampling: llm.Sampling{DoSample: true, Temperature: 0.8, TopK: 50}})
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Tagline:\nship it"))
	})

	It("flags a body that is not JSON as malformed", func() {
		server := httptest.NewServer(http.HandlerFunc(htmlBody))
		defer server.Close()

		gen, err := llm.NewGenerator(llm.Config{Provider: llm.ProviderAnthropic, APIKey: "k", BaseURL: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.Generate(context.Background(), llm.Request{Prompt: "p"})
		Expect(err).To(HaveOccurred())
		Expect(llm.IsMalformed(err)).To(BeTrue())
	})

	It("leaves upstream status errors untagged", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
		}))
		defer server.Close()

		gen, err := llm.NewGenerator(llm.Config{Provider: llm.ProviderAnthropic, APIKey: "k", BaseURL: server.URL + "/"})
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.Generate(context.Background(), llm.Request{Prompt: "p"})
		Expect(err).To(HaveOccurred())
		Expect(llm.IsMalformed(err)).To(BeFalse())
	})
})

// htmlBody answers 200 with an HTML page labelled as JSON, as a misbehaving proxy would.
func htmlBody(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte("<html>oops"))
}

var _ = Describe("IsTimeout", func() {
	It("matches deadline errors and nothing else", func() {
		Expect(llm.IsTimeout(context.DeadlineExceeded)).To(BeTrue())
		Expect(llm.IsTimeout(errors.New("boom"))).To(BeFalse())
		Expect(llm.IsTimeout(context.Canceled)).To(BeFalse())
		Expect(llm.IsTimeout(nil)).To(BeFalse())
	})
})
