package port

import (
	"context"
	"errors"

	"snipx-service/ddd/domain/vo"
)

// ErrLanguageUnsupported is returned by a transcriber that cannot handle the
// requested language hint.
var ErrLanguageUnsupported = errors.New("language not supported by transcriber")

// Transcriber turns an audio file into timed transcript segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) ([]vo.TranscriptSegment, error)
}

// Summarizer condenses text to between minLen and maxLen words.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error)
}
