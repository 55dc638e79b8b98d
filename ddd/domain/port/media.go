package port

import (
	"context"
	"time"

	"snipx-service/ddd/domain/vo"
)

// SilenceCutter removes silent stretches from the audio track of input.
type SilenceCutter interface {
	CutSilence(ctx context.Context, input, output string, thresholdDB float64, minSilence time.Duration) error
}

// AudioEnhancer normalizes loudness and applies one of the audio presets.
type AudioEnhancer interface {
	EnhanceAudio(ctx context.Context, input, output, preset string) error
}

// FrameSampler writes the frame at offset (seconds) as an image.
type FrameSampler interface {
	SampleFrame(ctx context.Context, input, output string, offset float64) error
}

// AudioExtractor writes a mono 16 kHz WAV of the audio track.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, input, output string) error
}

// VideoEnhanceParams 画面增强参数
type VideoEnhanceParams struct {
	Stabilization string
	Brightness    float64
	Contrast      float64
}

// VideoEnhancer applies stabilization and color adjustments.
type VideoEnhancer interface {
	EnhanceVideo(ctx context.Context, input, output string, params VideoEnhanceParams) error
}

// Prober reads container metadata.
type Prober interface {
	Probe(ctx context.Context, path string) (vo.VideoMetadata, error)
}

// MediaToolkit is the full set of media capabilities the pipeline needs. The ffmpeg
// executor implements all of them.
type MediaToolkit interface {
	SilenceCutter
	AudioEnhancer
	FrameSampler
	AudioExtractor
	VideoEnhancer
	Prober
}
