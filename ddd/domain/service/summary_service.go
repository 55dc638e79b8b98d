package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"snipx-service/ddd/domain/port"
	"snipx-service/ddd/domain/vo"
	"snipx-service/pkg/logger"
)

// SummaryService 生成视频摘要
type SummaryService struct {
	extractor   port.AudioExtractor
	transcriber port.Transcriber
	summarizer  port.Summarizer
	maxLen      int
	minLen      int
}

// NewSummaryService transcriber and summarizer are optional.
func NewSummaryService(extractor port.AudioExtractor, transcriber port.Transcriber, summarizer port.Summarizer, maxLen, minLen int) *SummaryService {
	if maxLen <= 0 {
		maxLen = 130
	}
	if minLen <= 0 || minLen > maxLen {
		minLen = 30
	}
	return &SummaryService{
		extractor:   extractor,
		transcriber: transcriber,
		summarizer:  summarizer,
		maxLen:      maxLen,
		minLen:      minLen,
	}
}

// Summarize writes <stem>_summary.txt and returns its path. A configured provider
// that fails fails the operation; an absent one is replaced by a local fallback.
func (s *SummaryService) Summarize(ctx context.Context, source, language string) (string, error) {
	text, err := s.transcript(ctx, source, language)
	if err != nil {
		return "", err
	}

	var summary string
	if s.summarizer != nil {
		summary, err = s.summarizer.Summarize(ctx, text, s.maxLen, s.minLen)
		if err != nil {
			return "", fmt.Errorf("summarize: %w", err)
		}
	} else {
		summary = TruncateWords(text, s.maxLen)
	}

	out := DerivePath(source, TagSummary, "txt")
	if err := os.WriteFile(out, []byte(strings.TrimSpace(summary)), 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return out, nil
}

func (s *SummaryService) transcript(ctx context.Context, source, language string) (string, error) {
	if s.transcriber == nil {
		text, _ := SampleText(language)
		return text, nil
	}

	audioPath := DerivePath(source, TagAudio, "wav")
	defer func() {
		if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
			logger.Warnf("failed to clean temp audio path=%s error=%s", audioPath, err.Error())
		}
	}()
	if err := s.extractor.ExtractAudio(ctx, source, audioPath); err != nil {
		return "", fmt.Errorf("extract audio: %w", err)
	}
	segments, err := s.transcriber.Transcribe(ctx, audioPath, language)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return joinTranscript(segments), nil
}

func joinTranscript(segments []vo.TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// TruncateWords keeps at most n whitespace-separated words.
func TruncateWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
