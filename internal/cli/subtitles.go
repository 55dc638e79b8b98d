package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"snipx-service/ddd/domain/service"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/executor"
	"snipx-service/ddd/infrastructure/provider"
	"snipx-service/pkg/errno"
)

var (
	subtitleLang     string
	subtitleStyle    string
	subtitleDuration time.Duration
	subtitleJSON     bool
	subtitleWrite    bool
)

var subtitlesCmd = &cobra.Command{
	Use:   "subtitles <file>",
	Short: "Synthesize subtitles for a local media file",
	Long: `Synthesize subtitles for a local media file without touching the record store.

Uses the configured transcriber when one is enabled, otherwise the built-in
sample text spread evenly over the clip. The SRT track is printed to stdout
unless --json or --write is given.

Examples:
  snipxctl subtitles talk.mp4 --lang fr
  snipxctl subtitles talk.mp4 --style bold --duration 90s --write`,
	Args: cobra.ExactArgs(1),
	RunE: runSubtitles,
}

func init() {
	f := subtitlesCmd.Flags()
	f.StringVar(&subtitleLang, "lang", vo.DefaultSubtitleLanguage, "subtitle language")
	f.StringVar(&subtitleStyle, "style", string(vo.SubtitleStyleClean), "subtitle style")
	f.DurationVar(&subtitleDuration, "duration", 0, "clip length, probed when omitted")
	f.BoolVar(&subtitleJSON, "json", false, "print the structured segments instead of SRT")
	f.BoolVar(&subtitleWrite, "write", false, "write <stem>_subtitles.srt and .json next to the file")
}

func runSubtitles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	source := args[0]
	if _, err := os.Stat(source); err != nil {
		return err
	}
	if !vo.SubtitleStyle(subtitleStyle).IsValid() {
		return errno.NewBizError(errno.ErrUnsupportedStyle, fmt.Errorf("subtitle style %q", subtitleStyle))
	}

	media := executor.NewFFmpegExecutor(cfg.Media)
	known := subtitleDuration.Seconds()
	if known <= 0 {
		if meta, err := media.Probe(ctx, source); err == nil {
			known = meta.Duration
		}
	}

	synth := service.NewSubtitleSynthesizer(media, provider.NewTranscriber(cfg.Providers.Transcriber), cfg.Processing.DefaultDuration)
	res, err := synth.Synthesize(ctx, source, subtitleLang, subtitleStyle, known)
	if err != nil {
		return err
	}

	switch {
	case subtitleWrite:
		track, structured, err := service.WriteSubtitleFiles(source, res)
		if err != nil {
			return err
		}
		printf("Wrote %d segments (origin=%s)\n  %s\n  %s\n", len(res.Segments), res.Origin, track, structured)
	case subtitleJSON:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Segments)
	default:
		printf("%s", res.Track)
	}
	return nil
}
