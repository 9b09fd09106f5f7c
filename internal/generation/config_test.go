package generation_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"code2pitch.app/relay/core/config"
	"code2pitch.app/relay/internal/generation"
)

var _ = Describe("Config", func() {
	It("bounds the default loop", func() {
		// 2 rounds * (3 * 70s + 1.5s + 2.5s) + 2s
		Expect(generation.DefaultConfig().WorstCase()).To(Equal(430 * time.Second))
	})

	It("maps the process configuration", func() {
		cfg := generation.ConfigFrom(config.GenerationConfig{
			ContentRetries:    4,
			MaxRetries:        1,
			RequestTimeout:    time.Second,
			ProbeTimeout:      0,
			ContentRetryDelay: time.Millisecond,
			BackoffJitter:     0,
		})
		Expect(cfg.ContentRetries).To(Equal(4))
		Expect(cfg.MaxRetries).To(Equal(1))
		Expect(cfg.WorstCase()).To(Equal(4*time.Second + 3*time.Millisecond))
	})
})
