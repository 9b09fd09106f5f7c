package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHuggingFaceBaseURL = "https://api-inference.huggingface.co/models"
	defaultHuggingFaceModel   = "facebook/bart-large-cnn"
	maxResponseBytes          = 4 << 20
)

type huggingFaceClient struct {
	http    *http.Client
	baseURL string
	model   string
	apiKey  string
}

func newHuggingFaceGenerator(cfg Config) *huggingFaceClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultHuggingFaceBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultHuggingFaceModel
	}

	return &huggingFaceClient{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		apiKey:  cfg.APIKey,
	}
}

type huggingFaceRequest struct {
	Inputs     string   `json:"inputs"`
	Parameters Sampling `json:"parameters"`
}

// Text-generation models answer with generated_text, summarization models
// with summary_text.
type huggingFaceOutput struct {
	GeneratedText *string `json:"generated_text"`
	SummaryText   *string `json:"summary_text"`
}

func (c *huggingFaceClient) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(huggingFaceRequest{Inputs: req.Prompt, Parameters: req.Sampling})
	if err != nil {
		return "", fmt.Errorf("encode huggingface request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build huggingface request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("huggingface generate: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read huggingface response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{
			Provider:   ProviderHuggingFace,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(raw),
		}
	}

	var outputs []huggingFaceOutput
	if err := json.Unmarshal(raw, &outputs); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(outputs) == 0 {
		return "", fmt.Errorf("%w: empty output list", ErrMalformedResponse)
	}

	var text string
	switch first := outputs[0]; {
	case first.GeneratedText != nil:
		text = *first.GeneratedText
	case first.SummaryText != nil:
		text = *first.SummaryText
	default:
		return "", fmt.Errorf("%w: no generated_text or summary_text", ErrMalformedResponse)
	}

	slog.DebugContext(ctx, "huggingface generation completed",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"output_chars", len(text))

	return text, nil
}

// Probe checks that the model endpoint exists. Only a 404 counts as unavailable.
func (c *huggingFaceClient) Probe(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(), nil)
	if err != nil {
		return fmt.Errorf("build huggingface probe: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("huggingface probe: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrModelUnavailable, c.model)
	}
	return nil
}

func (c *huggingFaceClient) Model() string {
	return c.model
}

func (c *huggingFaceClient) endpoint() string {
	return c.baseURL + "/" + c.model
}

func truncateBody(b []byte) string {
	const limit = 512
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
