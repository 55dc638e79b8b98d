package executor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"snipx-service/ddd/domain/port"
	"snipx-service/ddd/domain/vo"
	"snipx-service/pkg/logger"
)

// SilenceDetectFilter logs every stretch quieter than thresholdDB that lasts at least minSilence.
func SilenceDetectFilter(thresholdDB float64, minSilence time.Duration) string {
	return fmt.Sprintf("silencedetect=noise=%gdB:d=%.3f", thresholdDB, minSilence.Seconds())
}

// ErrSilentInput is returned by CutSilence when nothing above the threshold is left to keep.
var ErrSilentInput = errors.New("input is silent throughout")

// minKeepSeconds 短于该值的保留片段直接丢弃
const minKeepSeconds = 0.001

// timeSpan is [start, end) in seconds; end is +Inf for "until the end of input".
type timeSpan struct {
	start, end float64
}

var (
	silenceStartRe = regexp.MustCompile(`silence_start: (-?[0-9.]+)`)
	silenceEndRe   = regexp.MustCompile(`silence_end: (-?[0-9.]+)`)
)

// silenceLog collects silencedetect output and the -progress position of a detection pass.
type silenceLog struct {
	spans    []timeSpan
	open     float64
	opened   bool
	duration float64
}

func (l *silenceLog) observe(line string) {
	if v, ok := strings.CutPrefix(line, "out_time_us="); ok {
		if us, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && us > 0 {
			l.duration = float64(us) / 1e6
		}
		return
	}
	if m := silenceStartRe.FindStringSubmatch(line); m != nil {
		if start, err := strconv.ParseFloat(m[1], 64); err == nil {
			l.open, l.opened = start, true
		}
		return
	}
	if m := silenceEndRe.FindStringSubmatch(line); m != nil && l.opened {
		if end, err := strconv.ParseFloat(m[1], 64); err == nil {
			l.spans = append(l.spans, timeSpan{start: l.open, end: end})
			l.opened = false
		}
	}
}

// silences returns the detected spans; a start without an end runs to the end of input.
func (l *silenceLog) silences() []timeSpan {
	out := append([]timeSpan(nil), l.spans...)
	if l.opened {
		out = append(out, timeSpan{start: l.open, end: math.Inf(1)})
	}
	return out
}

// keepSpans is the complement of silences. The last span stays open unless a silence
// reaches the end; duration (0 when unknown) only closes that tail.
func keepSpans(silences []timeSpan, duration float64) []timeSpan {
	var keep []timeSpan
	cursor := 0.0
	for _, s := range silences {
		start := math.Max(s.start, 0)
		if start-cursor > minKeepSeconds {
			keep = append(keep, timeSpan{start: cursor, end: start})
		}
		cursor = math.Max(cursor, s.end)
	}
	if math.IsInf(cursor, 1) || (duration > 0 && duration-cursor <= minKeepSeconds) {
		return keep
	}
	return append(keep, timeSpan{start: cursor, end: math.Inf(1)})
}

// selectExpr renders spans as a select/aselect expression on t.
func selectExpr(keep []timeSpan) string {
	parts := make([]string, 0, len(keep))
	for _, k := range keep {
		if math.IsInf(k.end, 1) {
			parts = append(parts, fmt.Sprintf("gte(t,%.3f)", k.start))
			continue
		}
		parts = append(parts, fmt.Sprintf("between(t,%.3f,%.3f)", k.start, k.end))
	}
	return strings.Join(parts, "+")
}

// AudioFilter is the loudness chain for a preset.
func AudioFilter(preset string) string {
	chain := []string{}
	switch preset {
	case vo.AudioEnhancementVoice:
		chain = append(chain, "highpass=f=80", "lowpass=f=12000")
	case vo.AudioEnhancementMusic:
		chain = append(chain, "volume=1.5")
	}
	chain = append(chain,
		"loudnorm=I=-16:TP=-1.5:LRA=11",
		"acompressor=threshold=-18dB:ratio=3:attack=20:release=250",
	)
	return strings.Join(chain, ",")
}

var deshakeRadius = map[string]int{
	vo.StabilizationLow:    16,
	vo.StabilizationMedium: 32,
	vo.StabilizationHigh:   64,
}

// VideoFilter builds deshake/eq for the requested adjustments. It returns "" when
// nothing would change.
func VideoFilter(p port.VideoEnhanceParams) string {
	var chain []string
	if r, ok := deshakeRadius[p.Stabilization]; ok {
		chain = append(chain, fmt.Sprintf("deshake=rx=%d:ry=%d", r, r))
	}
	if p.Brightness != 0 || p.Contrast != 0 {
		brightness := clamp(p.Brightness/100, -1, 1)
		contrast := clamp(1+p.Contrast/100, 0, 2)
		chain = append(chain, fmt.Sprintf("eq=brightness=%.2f:contrast=%.2f", brightness, contrast))
	}
	return strings.Join(chain, ",")
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func (e *FFmpegExecutor) silenceDetectArgs(input string, thresholdDB float64, minSilence time.Duration) []string {
	return e.compile(ffmpeg.Input(input).Output("-", ffmpeg.KwArgs{
		"af": SilenceDetectFilter(thresholdDB, minSilence),
		"vn": "",
		"sn": "",
		"f":  "null",
	}))
}

// silenceCutArgs keeps the same spans on both streams so audio and video stay in sync.
func (e *FFmpegExecutor) silenceCutArgs(input, output string, keep []timeSpan) []string {
	expr := selectExpr(keep)
	return e.compile(ffmpeg.Input(input).Output(output, ffmpeg.KwArgs{
		"vf":     fmt.Sprintf("select='%s',setpts=N/FRAME_RATE/TB", expr),
		"af":     fmt.Sprintf("aselect='%s',asetpts=N/SR/TB", expr),
		"c:v":    e.videoCodec,
		"preset": e.videoPreset,
		"c:a":    "aac",
		"b:a":    "192k",
	}))
}

func (e *FFmpegExecutor) copyArgs(input, output string) []string {
	return e.compile(ffmpeg.Input(input).Output(output, ffmpeg.KwArgs{"c": "copy"}))
}

func (e *FFmpegExecutor) audioArgs(input, output, preset string) []string {
	return e.compile(ffmpeg.Input(input).Output(output, ffmpeg.KwArgs{
		"af":  AudioFilter(preset),
		"c:v": "copy",
		"c:a": "aac",
		"b:a": "192k",
	}))
}

func (e *FFmpegExecutor) frameArgs(input, output string, offset float64) []string {
	return e.compile(ffmpeg.Input(input, ffmpeg.KwArgs{"ss": formatSeconds(offset)}).Output(output, ffmpeg.KwArgs{
		"frames:v": 1,
		"q:v":      2,
	}))
}

func (e *FFmpegExecutor) extractArgs(input, output string) []string {
	return e.compile(ffmpeg.Input(input).Output(output, ffmpeg.KwArgs{
		"vn":     "",
		"ac":     1,
		"ar":     16000,
		"acodec": "pcm_s16le",
	}))
}

func (e *FFmpegExecutor) videoArgs(input, output string, p port.VideoEnhanceParams) []string {
	kw := ffmpeg.KwArgs{
		"c:v":    e.videoCodec,
		"preset": e.videoPreset,
		"c:a":    "copy",
	}
	if vf := VideoFilter(p); vf != "" {
		kw["vf"] = vf
	}
	return e.compile(ffmpeg.Input(input).Output(output, kw))
}

// CutSilence runs two passes: silencedetect on the audio, then select/aselect over the
// kept spans. Input without any silence is copied as is.
func (e *FFmpegExecutor) CutSilence(ctx context.Context, input, output string, thresholdDB float64, minSilence time.Duration) error {
	detected := &silenceLog{}
	if err := e.observe(ctx, "silence_detect", e.silenceDetectArgs(input, thresholdDB, minSilence), detected.observe); err != nil {
		return err
	}
	silences := detected.silences()
	if len(silences) == 0 {
		return e.run(ctx, "cut_silence", e.copyArgs(input, output), output)
	}
	keep := keepSpans(silences, detected.duration)
	if len(keep) == 0 {
		return fmt.Errorf("ffmpeg cut_silence: %w", ErrSilentInput)
	}
	logger.Debugf("silence cut plan input=%s silences=%d kept=%d", input, len(silences), len(keep))
	return e.run(ctx, "cut_silence", e.silenceCutArgs(input, output, keep), output)
}

func (e *FFmpegExecutor) EnhanceAudio(ctx context.Context, input, output, preset string) error {
	return e.run(ctx, "enhance_audio", e.audioArgs(input, output, preset), output)
}

// SampleFrame fails when offset lies past the end: ffmpeg then exits cleanly
// without writing a frame, which run reports as a missing output.
func (e *FFmpegExecutor) SampleFrame(ctx context.Context, input, output string, offset float64) error {
	return e.run(ctx, "sample_frame", e.frameArgs(input, output, offset), output)
}

func (e *FFmpegExecutor) ExtractAudio(ctx context.Context, input, output string) error {
	return e.run(ctx, "extract_audio", e.extractArgs(input, output), output)
}

func (e *FFmpegExecutor) EnhanceVideo(ctx context.Context, input, output string, params port.VideoEnhanceParams) error {
	return e.run(ctx, "enhance_video", e.videoArgs(input, output, params), output)
}
