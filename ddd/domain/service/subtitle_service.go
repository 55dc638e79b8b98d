package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"snipx-service/ddd/domain/port"
	"snipx-service/ddd/domain/vo"
	"snipx-service/pkg/logger"
	"snipx-service/pkg/observability"
)

// SubtitleResult 字幕合成结果
type SubtitleResult struct {
	Segments []vo.SubtitleSegment
	Track    string // SRT text
	Origin   vo.SubtitleOrigin
}

// SubtitleSynthesizer 生成字幕：优先转写，失败时退回示例文本
type SubtitleSynthesizer struct {
	extractor       port.AudioExtractor
	transcriber     port.Transcriber
	defaultDuration time.Duration
}

// NewSubtitleSynthesizer transcriber may be nil, in which case every run uses the sample text.
func NewSubtitleSynthesizer(extractor port.AudioExtractor, transcriber port.Transcriber, defaultDuration time.Duration) *SubtitleSynthesizer {
	if defaultDuration <= 0 {
		defaultDuration = 15 * time.Second
	}
	return &SubtitleSynthesizer{
		extractor:       extractor,
		transcriber:     transcriber,
		defaultDuration: defaultDuration,
	}
}

// Synthesize builds subtitles for source. knownDuration is the probed clip length in
// seconds, 0 when unknown.
func (s *SubtitleSynthesizer) Synthesize(ctx context.Context, source, language, style string, knownDuration float64) (*SubtitleResult, error) {
	if language == "" {
		language = vo.DefaultSubtitleLanguage
	}

	if s.transcriber != nil {
		transcript, err := s.transcribe(ctx, source, language)
		if err != nil {
			return nil, err
		}
		if transcript != nil {
			segments := buildSegments(transcript, language, style)
			return &SubtitleResult{Segments: segments, Track: RenderSRT(segments), Origin: vo.SubtitleOriginTranscription}, nil
		}
	}

	text, found := SampleText(language)
	chunkLang := language
	if !found {
		logger.Warnf("no sample text for language, using english language=%s", language)
		chunkLang = vo.DefaultSubtitleLanguage
	}
	observability.ObserveSubtitleFallback(language)

	duration := knownDuration
	if duration <= 0 {
		duration = s.defaultDuration.Seconds()
	}
	segments := buildSegments(DistributeEvenly(ChunkWords(text, chunkLang), duration), language, style)
	return &SubtitleResult{Segments: segments, Track: RenderSRT(segments), Origin: vo.SubtitleOriginSample}, nil
}

// transcribe returns (nil, nil) when the provider failed and the caller should fall
// back. Only audio extraction failures are returned as errors.
func (s *SubtitleSynthesizer) transcribe(ctx context.Context, source, language string) ([]vo.TranscriptSegment, error) {
	audioPath := DerivePath(source, TagAudio, "wav")
	defer func() {
		if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
			logger.Warnf("failed to clean temp audio path=%s error=%s", audioPath, err.Error())
		}
	}()

	if err := s.extractor.ExtractAudio(ctx, source, audioPath); err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}

	segments, err := s.transcriber.Transcribe(ctx, audioPath, language)
	switch {
	case errors.Is(err, port.ErrLanguageUnsupported):
		logger.Warnf("transcriber does not support language, using sample text language=%s", language)
		return nil, nil
	case err != nil:
		logger.Warnf("transcription failed, using sample text language=%s error=%s", language, err.Error())
		return nil, nil
	}
	if segments == nil {
		segments = []vo.TranscriptSegment{}
	}
	return segments, nil
}

func buildSegments(transcript []vo.TranscriptSegment, language, style string) []vo.SubtitleSegment {
	segments := make([]vo.SubtitleSegment, 0, len(transcript))
	for _, t := range transcript {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		segments = append(segments, vo.SubtitleSegment{
			ID:       len(segments) + 1,
			Start:    t.Start,
			End:      t.End,
			Text:     text,
			Language: language,
			Style:    style,
		})
	}
	return segments
}

// WriteSubtitleFiles writes <stem>_subtitles.srt and <stem>_subtitles.json next to source.
func WriteSubtitleFiles(source string, res *SubtitleResult) (trackPath, structuredPath string, err error) {
	trackPath = DerivePath(source, TagSubtitles, "srt")
	structuredPath = DerivePath(source, TagSubtitles, "json")

	if err = os.WriteFile(trackPath, []byte(res.Track), 0o644); err != nil {
		return "", "", fmt.Errorf("write srt: %w", err)
	}
	segments := res.Segments
	if segments == nil {
		segments = []vo.SubtitleSegment{}
	}
	data, err := json.MarshalIndent(segments, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode segments: %w", err)
	}
	if err = os.WriteFile(structuredPath, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write segments: %w", err)
	}
	return trackPath, structuredPath, nil
}

// ReadSubtitleSegments loads the structured subtitle file.
func ReadSubtitleSegments(path string) ([]vo.SubtitleSegment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var segments []vo.SubtitleSegment
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("decode segments: %w", err)
	}
	return segments, nil
}
