package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"code2pitch.app/relay/core/config"
)

var _ = Describe("Load", func() {
	setenv := func(pairs ...string) {
		for i := 0; i+1 < len(pairs); i += 2 {
			GinkgoT().Setenv(pairs[i], pairs[i+1])
		}
	}

	BeforeEach(func() {
		// Keep the developer's .env and environment out of the tests.
		setenv(
			"APP_ENV", "test",
			"GENERATION_API_KEY", "",
			"HUGGINGFACE_API_KEY", "",
			"HF_API_KEY", "",
			"GENERATION_PROVIDER", "huggingface",
			"GENERATION_CONTENT_RETRIES", "2",
			"GENERATION_MAX_RETRIES", "3",
			"GENERATION_TIMEOUT", "60s",
			"CORS_ALLOWED_ORIGINS", "",
		)
	})

	It("applies defaults", func() {
		setenv("HUGGINGFACE_API_KEY", "hf-key")

		cfg, err := config.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Generation.APIKey).To(Equal("hf-key"))
		Expect(cfg.Generation.Provider).To(Equal(config.ProviderHuggingFace))
		Expect(cfg.Generation.ContentRetries).To(Equal(2))
		Expect(cfg.Generation.MaxRetries).To(Equal(3))
		Expect(cfg.Generation.RequestTimeout).To(Equal(60 * time.Second))
		Expect(cfg.AllowedOrigins).To(ContainElement("https://code2pitch-ai.vercel.app"))
		Expect(cfg.IsProduction()).To(BeFalse())
	})

	It("prefers GENERATION_API_KEY over the HuggingFace variables", func() {
		setenv("GENERATION_API_KEY", "generic", "HUGGINGFACE_API_KEY", "hf-key")

		cfg, err := config.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Generation.APIKey).To(Equal("generic"))
	})

	It("reads overrides", func() {
		setenv(
			"GENERATION_API_KEY", "k",
			"GENERATION_PROVIDER", "OpenAI",
			"GENERATION_TIMEOUT", "15s",
			"CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example",
			"PROMPT_CLEAN_README", "true",
		)

		cfg, err := config.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Generation.Provider).To(Equal(config.ProviderOpenAI))
		Expect(cfg.Generation.RequestTimeout).To(Equal(15 * time.Second))
		Expect(cfg.AllowedOrigins).To(Equal([]string{"https://a.example", "https://b.example"}))
		Expect(cfg.Prompt.CleanReadme).To(BeTrue())
	})

	DescribeTable("rejects invalid generation settings",
		func(key, value, message string) {
			setenv("GENERATION_API_KEY", "k", key, value)

			_, err := config.Load()
			Expect(err).To(MatchError(ContainSubstring(message)))
		},
		Entry("unknown provider", "GENERATION_PROVIDER", "cohere", "unsupported GENERATION_PROVIDER"),
		Entry("zero content retries", "GENERATION_CONTENT_RETRIES", "0", "must be at least 1"),
		Entry("zero max retries", "GENERATION_MAX_RETRIES", "0", "must be at least 1"),
		Entry("zero timeout", "GENERATION_TIMEOUT", "0s", "must be positive"),
	)

	It("requires an API key", func() {
		_, err := config.Load()
		Expect(err).To(MatchError(ContainSubstring("GENERATION_API_KEY")))
	})

	It("reports optional integrations as enabled only when configured", func() {
		Expect(config.EventsConfig{}.Enabled()).To(BeFalse())
		Expect(config.EventsConfig{RedisURL: "redis://localhost:6379"}.Enabled()).To(BeTrue())
		Expect(config.OTelConfig{Endpoint: "http://collector:4318"}.Enabled()).To(BeTrue())
		Expect(config.GitLabConfig{}.Enabled()).To(BeFalse())
	})
})
