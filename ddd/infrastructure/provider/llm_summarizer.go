package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"snipx-service/ddd/domain/port"
	"snipx-service/pkg/config"
)

var _ port.Summarizer = (*LLMSummarizer)(nil)

const summarySystemPrompt = `You summarize video transcripts. Reply with the summary only, in the language of the transcript, as plain prose without lists or headings.`

// LLMSummarizer asks a langchaingo chat model for a bounded summary.
type LLMSummarizer struct {
	llm     llms.Model
	timeout time.Duration
}

func NewLLMSummarizer(cfg config.SummarizerConfig) (*LLMSummarizer, error) {
	var (
		model llms.Model
		err   error
	)
	switch cfg.Driver {
	case "ollama":
		model, err = ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = lcopenai.New(
			lcopenai.WithToken(cfg.APIKey),
			lcopenai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Driver)
	}
	return &LLMSummarizer{llm: model, timeout: cfg.Timeout}, nil
}

func (s *LLMSummarizer) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, summarySystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, summaryPrompt(text, maxLen, minLen)),
	}
	resp, err := s.llm.GenerateContent(ctx, messages, llms.WithTemperature(0.2))
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return clampSummary(resp.Choices[0].Content, maxLen), nil
}

func summaryPrompt(text string, maxLen, minLen int) string {
	return fmt.Sprintf("Summarize the following transcript in %d to %d words.\n\nTranscript:\n%s", minLen, maxLen, text)
}

// clampSummary trims model output to at most maxLen words. Models overshoot
// word limits often enough that the bound is enforced here.
func clampSummary(out string, maxLen int) string {
	words := strings.Fields(out)
	if maxLen > 0 && len(words) > maxLen {
		words = words[:maxLen]
	}
	return strings.Join(words, " ")
}
