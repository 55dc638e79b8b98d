package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"snipx-service/ddd/domain/vo"
)

const defaultProbeTimeout = 30 * time.Second

type probeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
}

// Probe reads duration, resolution and frame rate of path.
func (e *FFmpegExecutor) Probe(ctx context.Context, path string) (vo.VideoMetadata, error) {
	raw, err := e.probeJSON(ctx, path)
	if err != nil {
		return vo.VideoMetadata{}, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbe(raw, path)
}

func (e *FFmpegExecutor) probeJSON(ctx context.Context, path string) (string, error) {
	timeout := defaultProbeTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	if e.ffprobeBin == "ffprobe" {
		return ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{})
	}
	// ffmpeg-go always resolves "ffprobe" from PATH
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := exec.CommandContext(pctx, e.ffprobeBin, "-show_format", "-show_streams", "-of", "json", path).Output()
	return string(out), err
}

func parseProbe(raw, path string) (vo.VideoMetadata, error) {
	var p probeOutput
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return vo.VideoMetadata{}, fmt.Errorf("decode ffprobe output: %w", err)
	}
	meta := vo.VideoMetadata{
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}
	if d, err := strconv.ParseFloat(p.Format.Duration, 64); err == nil {
		meta.Duration = d
	}
	found := false
	for _, s := range p.Streams {
		if s.CodecType != "video" {
			continue
		}
		found = true
		if s.Width > 0 && s.Height > 0 {
			meta.Resolution = fmt.Sprintf("%dx%d", s.Width, s.Height)
		}
		meta.FPS = parseRate(s.AvgFrameRate)
		if meta.FPS == 0 {
			meta.FPS = parseRate(s.RFrameRate)
		}
		if meta.Duration == 0 {
			if d, err := strconv.ParseFloat(s.Duration, 64); err == nil {
				meta.Duration = d
			}
		}
		break
	}
	if !found {
		return meta, ErrNoVideoStream
	}
	return meta, nil
}

// parseRate turns "30000/1001" into 29.97.
func parseRate(r string) float64 {
	num, den, ok := strings.Cut(r, "/")
	if !ok {
		v, _ := strconv.ParseFloat(r, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return float64(int(n/d*100+0.5)) / 100
}
