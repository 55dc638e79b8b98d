package vo

import (
	"fmt"
	"strings"

	"snipx-service/pkg/errno"
)

// Stabilization levels accepted by the video enhancement pass.
const (
	StabilizationNone   = "none"
	StabilizationLow    = "low"
	StabilizationMedium = "medium"
	StabilizationHigh   = "high"
)

// Audio enhancement presets.
const (
	AudioEnhancementStandard = "standard"
	AudioEnhancementVoice    = "voice"
	AudioEnhancementMusic    = "music"
)

// ProcessingOptions is the full option snapshot of one run. JSON names match what the
// web client sends.
type ProcessingOptions struct {
	CutSilence           bool    `json:"cut_silence"`
	EnhanceAudio         bool    `json:"enhance_audio"`
	AudioEnhancementType string  `json:"audio_enhancement_type,omitempty"`
	GenerateThumbnail    bool    `json:"generate_thumbnail"`
	GenerateSubtitles    bool    `json:"generate_subtitles"`
	SubtitleLanguage     string  `json:"subtitle_language,omitempty"`
	SubtitleStyle        string  `json:"subtitle_style,omitempty"`
	Summarize            bool    `json:"summarize"`
	Stabilization        string  `json:"stabilization,omitempty"`
	Brightness           float64 `json:"brightness,omitempty"`
	Contrast             float64 `json:"contrast,omitempty"`
}

// Normalize fills defaults in place and lower-cases enumerations.
func (o *ProcessingOptions) Normalize() {
	o.SubtitleLanguage = strings.ToLower(strings.TrimSpace(o.SubtitleLanguage))
	if o.SubtitleLanguage == "" {
		o.SubtitleLanguage = DefaultSubtitleLanguage
	}
	o.SubtitleStyle = strings.ToLower(strings.TrimSpace(o.SubtitleStyle))
	if o.SubtitleStyle == "" {
		o.SubtitleStyle = string(SubtitleStyleClean)
	}
	o.AudioEnhancementType = strings.ToLower(strings.TrimSpace(o.AudioEnhancementType))
	if o.AudioEnhancementType == "" {
		o.AudioEnhancementType = AudioEnhancementStandard
	}
	o.Stabilization = strings.ToLower(strings.TrimSpace(o.Stabilization))
	if o.Stabilization == "" {
		o.Stabilization = StabilizationNone
	}
}

// Validate rejects malformed options. It expects Normalize to have run.
func (o ProcessingOptions) Validate() error {
	switch o.Stabilization {
	case StabilizationNone, StabilizationLow, StabilizationMedium, StabilizationHigh:
	default:
		return invalidOption("stabilization %q is not one of none, low, medium, high", o.Stabilization)
	}
	switch o.AudioEnhancementType {
	case AudioEnhancementStandard, AudioEnhancementVoice, AudioEnhancementMusic:
	default:
		return invalidOption("audio_enhancement_type %q is not one of standard, voice, music", o.AudioEnhancementType)
	}
	if !SubtitleStyle(o.SubtitleStyle).IsValid() {
		return errno.NewBizError(errno.ErrUnsupportedStyle, fmt.Errorf("subtitle_style %q", o.SubtitleStyle))
	}
	if o.Brightness < -100 || o.Brightness > 100 {
		return invalidOption("brightness %.1f outside [-100, 100]", o.Brightness)
	}
	if o.Contrast < -100 || o.Contrast > 100 {
		return invalidOption("contrast %.1f outside [-100, 100]", o.Contrast)
	}
	if len(o.Requested()) == 0 {
		return errno.ErrNoOperationRequested
	}
	return nil
}

func invalidOption(format string, args ...interface{}) error {
	return errno.NewBizError(errno.ErrInvalidOptions, fmt.Errorf(format, args...))
}

// WantsVideoEnhancement reports whether any cross-cutting video flag is set.
func (o ProcessingOptions) WantsVideoEnhancement() bool {
	return (o.Stabilization != "" && o.Stabilization != StabilizationNone) || o.Brightness != 0 || o.Contrast != 0
}

// Enabled reports whether op is requested by these options.
func (o ProcessingOptions) Enabled(op Operation) bool {
	switch op {
	case OperationCutSilence:
		return o.CutSilence
	case OperationEnhanceAudio:
		return o.EnhanceAudio
	case OperationGenerateThumbnail:
		return o.GenerateThumbnail
	case OperationGenerateSubtitles:
		return o.GenerateSubtitles
	case OperationSummarize:
		return o.Summarize
	case OperationEnhanceVideo:
		return o.WantsVideoEnhancement()
	default:
		return false
	}
}

// Requested lists enabled operations in execution order.
func (o ProcessingOptions) Requested() []Operation {
	ops := make([]Operation, 0, len(OperationOrder))
	for _, op := range OperationOrder {
		if o.Enabled(op) {
			ops = append(ops, op)
		}
	}
	return ops
}
