package vo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipx-service/pkg/errno"
)

func TestVideoStatusTransitions(t *testing.T) {
	all := []VideoStatus{VideoStatusUploaded, VideoStatusProcessing, VideoStatusCompleted, VideoStatusFailed}
	allowed := map[VideoStatus][]VideoStatus{
		VideoStatusUploaded:   {VideoStatusProcessing},
		VideoStatusProcessing: {VideoStatusCompleted, VideoStatusFailed},
		VideoStatusCompleted:  {VideoStatusProcessing},
		VideoStatusFailed:     {VideoStatusProcessing},
	}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	_, err := NewVideoStatusFromString("queued")
	assert.Error(t, err)
	st, err := NewVideoStatusFromString("failed")
	require.NoError(t, err)
	assert.True(t, st.IsFinalStatus())
}

func TestProcessingOptionsNormalizeAndValidate(t *testing.T) {
	cases := []struct {
		name string
		opts ProcessingOptions
		want *errno.Errno
	}{
		{"thumbnail only", ProcessingOptions{GenerateThumbnail: true}, nil},
		{"brightness only enables enhancement", ProcessingOptions{Brightness: 20}, nil},
		{"nothing requested", ProcessingOptions{}, errno.ErrNoOperationRequested},
		{"stabilization none is not a request", ProcessingOptions{Stabilization: "None"}, errno.ErrNoOperationRequested},
		{"bad stabilization", ProcessingOptions{Stabilization: "extreme"}, errno.ErrInvalidOptions},
		{"bad style", ProcessingOptions{GenerateSubtitles: true, SubtitleStyle: "gothic"}, errno.ErrUnsupportedStyle},
		{"contrast out of range", ProcessingOptions{Contrast: 150}, errno.ErrInvalidOptions},
		{"bad audio preset", ProcessingOptions{EnhanceAudio: true, AudioEnhancementType: "robot"}, errno.ErrInvalidOptions},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := tc.opts
			opts.Normalize()
			err := opts.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	opts := ProcessingOptions{GenerateSubtitles: true, SubtitleLanguage: " FR "}
	opts.Normalize()
	assert.Equal(t, "fr", opts.SubtitleLanguage)
	assert.Equal(t, "clean", opts.SubtitleStyle)
	assert.Equal(t, "standard", opts.AudioEnhancementType)
	assert.Equal(t, "none", opts.Stabilization)
}

func TestRequestedFollowsFixedOrder(t *testing.T) {
	opts := ProcessingOptions{
		Summarize:         true,
		Stabilization:     StabilizationLow,
		CutSilence:        true,
		GenerateThumbnail: true,
		EnhanceAudio:      true,
		GenerateSubtitles: true,
	}
	assert.Equal(t, OperationOrder, opts.Requested())
}

func TestOutputsApplyKeepsOtherSlots(t *testing.T) {
	var out Outputs
	out.Apply(ThumbnailArtifact("/v/a_thumb.jpg"))
	out.Apply(ProcessedVideoArtifact("/v/a_processed.mp4"))
	out.Apply(ProcessedVideoArtifact("/v/a_enhanced.mp4"))
	out.Apply(SubtitlesArtifact(SubtitleOutput{TrackPath: "/v/a_subtitles.srt", StructuredPath: "/v/a_subtitles.json", Language: "en", Style: "clean"}))

	require.NotNil(t, out.Thumbnail)
	assert.Equal(t, "/v/a_thumb.jpg", *out.Thumbnail)
	assert.Equal(t, "/v/a_enhanced.mp4", *out.ProcessedVideo)
	assert.Nil(t, out.Summary)
	assert.Equal(t, []ArtifactSlot{SlotProcessedVideo, SlotThumbnail, SlotSubtitles}, out.PresentSlots())
	assert.ElementsMatch(t, []string{"/v/a_enhanced.mp4", "/v/a_thumb.jpg", "/v/a_subtitles.srt", "/v/a_subtitles.json"}, out.Paths())
}
