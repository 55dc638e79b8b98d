package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueUploadPathAvoidsArtifactNames(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		upload   string
		want     string
	}{
		{"artifact name of new upload exists", []string{"clip_processed.mp4"}, "clip.mp4", "clip_1.mp4"},
		{"new upload is artifact name of existing", []string{"clip.mp4"}, "clip processed.mp4", "clip_processed_1.mp4"},
		{"multi word tag", []string{"clip_video.mp4"}, "clip video enhanced.mp4", "clip_video_enhanced_1.mp4"},
		{"subtitle json", []string{"talk_subtitles.json"}, "talk.mov", "talk_1.mov"},
		{"unrelated suffix", []string{"clip.mp4"}, "clip final.mp4", "clip_final.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, name := range tt.existing {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
			}
			p, err := UniqueUploadPath(dir, tt.upload)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), p)

			for _, derived := range DerivedPaths(p) {
				for _, name := range tt.existing {
					assert.NotEqual(t, filepath.Join(dir, name), derived)
				}
			}
		})
	}
}

func TestUniqueUploadPathSequence(t *testing.T) {
	dir := t.TempDir()
	first, err := UniqueUploadPath(dir, "clip processed.mp4")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(first, []byte("first"), 0o644))

	second, err := UniqueUploadPath(dir, "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clip_1.mp4"), second)
	assert.NotEqual(t, first, DerivePath(second, TagProcessed, "mp4"))
}

func TestDerivedPaths(t *testing.T) {
	paths := DerivedPaths("/data/v/clip.mp4")
	assert.Contains(t, paths, "/data/v/clip_processed.mp4")
	assert.Contains(t, paths, "/data/v/clip_enhanced.mp4")
	assert.Contains(t, paths, "/data/v/clip_video_enhanced.mp4")
	assert.Contains(t, paths, "/data/v/clip_thumb.jpg")
	assert.Contains(t, paths, "/data/v/clip_subtitles.srt")
	assert.Contains(t, paths, "/data/v/clip_subtitles.json")
	assert.Contains(t, paths, "/data/v/clip_summary.txt")
	assert.Contains(t, paths, "/data/v/clip_audio.wav")
	assert.NotContains(t, paths, "/data/v/clip.mp4")
}
