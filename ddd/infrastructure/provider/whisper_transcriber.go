package provider

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"snipx-service/ddd/domain/port"
	"snipx-service/ddd/domain/vo"
	"snipx-service/pkg/config"
)

var _ port.Transcriber = (*WhisperTranscriber)(nil)

// whisper 只接受 ISO-639-1，ru-ur 这类混合码需要映射或拒绝
var whisperLanguages = map[string]string{
	"en": "en", "ur": "ur", "ar": "ar", "hi": "hi", "es": "es", "fr": "fr",
	"de": "de", "zh": "zh", "ja": "ja", "ko": "ko", "pt": "pt", "ru": "ru",
	"it": "it", "tr": "tr", "nl": "nl",
}

// WhisperTranscriber calls the OpenAI audio transcription endpoint with
// verbose_json so segment timings come back.
type WhisperTranscriber struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func NewWhisperTranscriber(cfg config.TranscriberConfig) (*WhisperTranscriber, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai transcriber: api_key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = openai.AudioModelWhisper1
	}
	return &WhisperTranscriber{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

type verboseTranscript struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audioPath, language string) ([]vo.TranscriptSegment, error) {
	lang, ok := whisperLanguages[language]
	if !ok {
		return nil, fmt.Errorf("whisper %q: %w", language, port.ErrLanguageUnsupported)
	}
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	params := openai.AudioTranscriptionNewParams{
		File:                   f,
		Model:                  openai.AudioModel(w.model),
		Language:               openai.String(lang),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	// 响应类型随 response_format 变化，直接解到本地结构
	var out verboseTranscript
	if err := w.client.Post(ctx, "audio/transcriptions", params, &out); err != nil {
		return nil, fmt.Errorf("whisper transcription: %w", err)
	}
	return toSegments(out), nil
}

func toSegments(out verboseTranscript) []vo.TranscriptSegment {
	segments := make([]vo.TranscriptSegment, 0, len(out.Segments))
	for _, s := range out.Segments {
		segments = append(segments, vo.TranscriptSegment{Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text)})
	}
	return segments
}
