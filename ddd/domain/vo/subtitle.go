package vo

// DefaultSubtitleLanguage is used when no language is requested and as the fallback
// sample text for unknown codes.
const DefaultSubtitleLanguage = "en"

// SubtitleStyle is a presentation hint carried along with each segment.
type SubtitleStyle string

const (
	SubtitleStyleClean    SubtitleStyle = "clean"
	SubtitleStyleCasual   SubtitleStyle = "casual"
	SubtitleStyleFormal   SubtitleStyle = "formal"
	SubtitleStyleCreative SubtitleStyle = "creative"
)

func (s SubtitleStyle) IsValid() bool {
	switch s {
	case SubtitleStyleClean, SubtitleStyleCasual, SubtitleStyleFormal, SubtitleStyleCreative:
		return true
	}
	return false
}

// SubtitleSegment is one timed caption in the structured output.
type SubtitleSegment struct {
	ID       int     `json:"id"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Style    string  `json:"style"`
}

// TranscriptSegment is what a speech-to-text provider returns.
type TranscriptSegment struct {
	Start float64
	End   float64
	Text  string
}

// SubtitleOrigin tells whether captions came from a transcript or the sample bank.
type SubtitleOrigin string

const (
	SubtitleOriginTranscription SubtitleOrigin = "transcription"
	SubtitleOriginSample        SubtitleOrigin = "sample"
)
