package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"snipx-service/ddd/domain/port"
	"snipx-service/pkg/config"
)

var _ port.Summarizer = (*CohereSummarizer)(nil)

// CohereSummarizer uses the Cohere chat endpoint.
type CohereSummarizer struct {
	client *cohereclient.Client
	model  string
}

func NewCohereSummarizer(cfg config.SummarizerConfig) (*CohereSummarizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("cohere summarizer: api_key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(cfg.APIKey),
		cohereclient.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	model := cfg.Model
	if model == "" {
		model = "command-r"
	}
	return &CohereSummarizer{client: client, model: model}, nil
}

func (c *CohereSummarizer) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:     summaryPrompt(text, maxLen, minLen),
		Model:       cohere.String(c.model),
		Preamble:    cohere.String(summarySystemPrompt),
		Temperature: cohere.Float64(0.2),
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil {
		return "", errors.New("cohere chat returned empty response")
	}
	return clampSummary(resp.Text, maxLen), nil
}
