// Package provider builds the optional transcription and summarization backends.
// A backend that is disabled or fails to construct yields nil, and the pipeline
// then uses its built-in fallbacks.
package provider

import (
	"strings"

	"snipx-service/ddd/domain/port"
	"snipx-service/pkg/config"
	"snipx-service/pkg/logger"
)

func NewTranscriber(cfg config.TranscriberConfig) port.Transcriber {
	switch strings.ToLower(cfg.Driver) {
	case "", "none":
		return nil
	case "openai":
		t, err := NewWhisperTranscriber(cfg)
		if err != nil {
			logger.Warnf("Transcriber unavailable driver=%s error=%v", cfg.Driver, err)
			return nil
		}
		logger.Infof("Transcriber enabled driver=openai model=%s", t.model)
		return t
	default:
		logger.Warnf("Unknown transcriber driver=%s, transcription disabled", cfg.Driver)
		return nil
	}
}

func NewSummarizer(cfg config.SummarizerConfig) port.Summarizer {
	cfg.Driver = strings.ToLower(cfg.Driver)
	var (
		s   port.Summarizer
		err error
	)
	switch cfg.Driver {
	case "", "none":
		return nil
	case "ollama", "openai":
		s, err = NewLLMSummarizer(cfg)
	case "cohere":
		s, err = NewCohereSummarizer(cfg)
	default:
		logger.Warnf("Unknown summarizer driver=%s, summarization falls back to truncation", cfg.Driver)
		return nil
	}
	if err != nil {
		logger.Warnf("Summarizer unavailable driver=%s error=%v", cfg.Driver, err)
		return nil
	}
	logger.Infof("Summarizer enabled driver=%s model=%s", cfg.Driver, cfg.Model)
	return s
}
