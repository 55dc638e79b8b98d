package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"snipx-service/ddd/application/app"
	"snipx-service/ddd/application/cqe"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/database/persistence"
	"snipx-service/internal/resource"
)

var processOpts vo.ProcessingOptions

var processCmd = &cobra.Command{
	Use:   "process <video-id>",
	Short: "Run the processing pipeline for one video and wait for the result",
	Long: `Run the processing pipeline for one stored video, synchronously.

The run takes the same per-video lock as the API, so it fails with
"Video is busy" while another run is in progress.

Examples:
  snipxctl process 42 --thumbnail --subtitles --lang fr
  snipxctl process 42 --cut-silence --enhance-audio --audio-type voice`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	f := processCmd.Flags()
	f.BoolVar(&processOpts.CutSilence, "cut-silence", false, "remove silent stretches")
	f.BoolVar(&processOpts.EnhanceAudio, "enhance-audio", false, "apply the audio enhancement preset")
	f.StringVar(&processOpts.AudioEnhancementType, "audio-type", "", "audio preset: standard, voice or music")
	f.BoolVar(&processOpts.GenerateThumbnail, "thumbnail", false, "sample a thumbnail frame")
	f.BoolVar(&processOpts.GenerateSubtitles, "subtitles", false, "generate subtitles")
	f.StringVar(&processOpts.SubtitleLanguage, "lang", "", "subtitle language (default en)")
	f.StringVar(&processOpts.SubtitleStyle, "style", "", "subtitle style (default clean)")
	f.BoolVar(&processOpts.Summarize, "summarize", false, "write a text summary")
	f.StringVar(&processOpts.Stabilization, "stabilization", "", "none, low, medium or high")
	f.Float64Var(&processOpts.Brightness, "brightness", 0, "brightness adjustment in [-100, 100]")
	f.Float64Var(&processOpts.Contrast, "contrast", 0, "contrast adjustment in [-100, 100]")
}

func runProcess(cmd *cobra.Command, args []string) error {
	openResources()
	ctx := cmd.Context()
	videoID := args[0]

	// 以记录的所有者身份执行，沿用 API 的归属校验
	video, err := persistence.NewVideoRepository(resource.DefaultDatabaseResource().MainDB()).Get(ctx, videoID)
	if err != nil {
		return fmt.Errorf("load video %s: %w", videoID, err)
	}

	result, err := app.DefaultVideoApp().Process(ctx, &cqe.ProcessVideoCqe{
		UserID:  video.UserID(),
		VideoID: videoID,
		Options: processOpts,
	})
	if err != nil {
		return fmt.Errorf("process video %s: %w", videoID, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
