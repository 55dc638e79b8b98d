package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"snipx-service/ddd/domain/port"
	"snipx-service/pkg/config"
	"snipx-service/pkg/logger"
)

const stderrTailLines = 200

var _ port.MediaToolkit = (*FFmpegExecutor)(nil)

// FFmpegExecutor implements the media ports by shelling out to ffmpeg/ffprobe.
// Arguments are assembled with ffmpeg-go; the process itself is run here so that
// stderr can be captured and the context can kill it.
type FFmpegExecutor struct {
	ffmpegBin   string
	ffprobeBin  string
	videoCodec  string
	videoPreset string
}

func NewFFmpegExecutor(cfg config.MediaConfig) *FFmpegExecutor {
	e := &FFmpegExecutor{
		ffmpegBin:   cfg.FFmpegBinary,
		ffprobeBin:  cfg.FFprobeBinary,
		videoCodec:  cfg.VideoCodec,
		videoPreset: cfg.VideoPreset,
	}
	if strings.TrimSpace(e.ffmpegBin) == "" {
		e.ffmpegBin = "ffmpeg"
	}
	if strings.TrimSpace(e.ffprobeBin) == "" {
		e.ffprobeBin = "ffprobe"
	}
	if strings.TrimSpace(e.videoCodec) == "" {
		e.videoCodec = "libx264"
	}
	if strings.TrimSpace(e.videoPreset) == "" {
		e.videoPreset = "medium"
	}
	return e
}

// compile turns an ffmpeg-go stream graph into a command line.
func (e *FFmpegExecutor) compile(stream *ffmpeg.Stream) []string {
	return stream.OverWriteOutput().GlobalArgs("-progress", "pipe:2", "-nostats").GetArgs()
}

// run executes ffmpeg with args and fails when output was not produced.
func (e *FFmpegExecutor) run(ctx context.Context, op string, args []string, output string) error {
	// a stale file from an earlier run must not pass the output check below
	if err := os.Remove(output); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ffmpeg %s: clear output: %w", op, err)
	}
	if err := e.observe(ctx, op, args, nil); err != nil {
		return err
	}
	info, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("ffmpeg %s: output missing: %w", op, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("ffmpeg %s: empty output %s", op, output)
	}
	return nil
}

// observe executes ffmpeg and hands every stderr line to fn, progress lines included.
func (e *FFmpegExecutor) observe(ctx context.Context, op string, args []string, fn func(string)) error {
	cmd := exec.CommandContext(ctx, e.ffmpegBin, args...)
	logger.Debugf("ffmpeg command op=%s command=%s", op, e.ffmpegBin+" "+strings.Join(args, " "))
	if err := e.execute(ctx, cmd, fn); err != nil {
		return fmt.Errorf("ffmpeg %s: %w", op, err)
	}
	return nil
}

func (e *FFmpegExecutor) execute(ctx context.Context, cmd *exec.Cmd, observe func(string)) error {
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("创建FFmpeg stderr管道失败: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("启动FFmpeg命令失败: %w", err)
	}

	scanDone := make(chan struct{})
	buf := make([]string, 0, stderrTailLines)
	go func() {
		defer close(scanDone)
		scanStderr(stderr, &buf, observe)
	}()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-scanDone
		return ctx.Err()
	case err := <-done:
		<-scanDone
		if err == nil {
			return nil
		}
		tail := buf
		if n := len(tail); n > 50 {
			tail = tail[n-50:]
		}
		if len(tail) > 0 {
			logger.Errorf("ffmpeg failed tail_stderr=%s", strings.Join(tail, "\n"))
		}
		return withLastLine(err, tail)
	}
}

// scanStderr keeps the last stderr lines, skipping -progress key=value noise.
// observe, when set, sees every line.
func scanStderr(r io.Reader, capture *[]string, observe func(string)) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if observe != nil {
			observe(line)
		}
		if isProgressLine(line) {
			continue
		}
		b := *capture
		if len(b) >= stderrTailLines {
			b = b[1:]
		}
		*capture = append(b, line)
	}
}

var progressKeys = []string{
	"frame=", "fps=", "stream_", "bitrate=", "total_size=", "out_time", "dup_frames=",
	"drop_frames=", "speed=", "progress=",
}

func isProgressLine(line string) bool {
	for _, k := range progressKeys {
		if strings.HasPrefix(line, k) {
			return true
		}
	}
	return false
}

func withLastLine(err error, tail []string) error {
	for i := len(tail) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(tail[i]); l != "" {
			return fmt.Errorf("%w: %s", err, l)
		}
	}
	return err
}

// formatSeconds renders a seek offset the way ffmpeg expects.
func formatSeconds(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// ErrNoVideoStream is returned by Probe for files without a video track.
var ErrNoVideoStream = errors.New("no video stream")
