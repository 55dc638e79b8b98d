package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipx-service/ddd/domain/vo"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00,000"},
		{3661.234, "01:01:01,234"},
		{1.5, "00:00:01,500"},
		{59.9996, "00:01:00,000"},
		{36000, "10:00:00,000"},
		{-3, "00:00:00,000"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTimestamp(tc.in), "seconds=%v", tc.in)
	}
}

func TestChunkWords(t *testing.T) {
	text := strings.Repeat("w ", 20)
	assert.Len(t, ChunkWords(text, "en"), 3)  // 8+8+4
	assert.Len(t, ChunkWords(text, "ja"), 4)  // 6+6+6+2
	assert.Len(t, ChunkWords(text, "xx"), 3)
	assert.Empty(t, ChunkWords("   ", "en"))
}

func TestSampleTextBank(t *testing.T) {
	for _, lang := range []string{"en", "ur", "ru-ur", "ar", "hi", "es", "fr", "de", "zh", "ja", "ko", "pt", "ru", "it", "tr", "nl"} {
		text, ok := SampleText(lang)
		assert.True(t, ok, lang)
		assert.NotEmpty(t, strings.Fields(text), lang)
	}
	text, ok := SampleText("sw")
	assert.False(t, ok)
	en, _ := SampleText("en")
	assert.Equal(t, en, text)
	assert.Len(t, SupportedSampleLanguages(), 16)
}

func TestSynthesizeWithoutTranscriberUsesDefaultDuration(t *testing.T) {
	media := newFakeMedia()
	synth := NewSubtitleSynthesizer(media, nil, 15*time.Second)

	res, err := synth.Synthesize(context.Background(), "/nowhere/clip.mp4", "de", "casual", 0)
	require.NoError(t, err)
	assert.Equal(t, vo.SubtitleOriginSample, res.Origin)
	assert.Empty(t, media.calls, "no audio extraction without a transcriber")

	n := len(res.Segments)
	require.Greater(t, n, 1)
	step := 15.0 / float64(n)
	for i, s := range res.Segments {
		assert.InDelta(t, float64(i)*step, s.Start, 1e-9)
		assert.InDelta(t, float64(i+1)*step, s.End, 1e-9)
	}
	assert.Equal(t, n, strings.Count(res.Track, " --> "))
}

func TestSynthesizeUsesTranscript(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "talk.mp4")
	tr := &fakeTranscriber{segments: []vo.TranscriptSegment{
		{Start: 0, End: 1.2, Text: "hello"},
		{Start: 1.2, End: 1.5, Text: "  "},
		{Start: 1.5, End: 3, Text: "there"},
	}}
	synth := NewSubtitleSynthesizer(newFakeMedia(), tr, 0)

	res, err := synth.Synthesize(context.Background(), src, "en", "clean", 3)
	require.NoError(t, err)
	assert.Equal(t, vo.SubtitleOriginTranscription, res.Origin)
	require.Len(t, res.Segments, 2)
	assert.Equal(t, 2, res.Segments[1].ID)
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:01,200\nhello\n\n2\n00:00:01,500 --> 00:00:03,000\nthere\n\n", res.Track)
}

func TestSynthesizeProviderErrorFallsBack(t *testing.T) {
	dir := t.TempDir()
	synth := NewSubtitleSynthesizer(newFakeMedia(), &fakeTranscriber{err: errBoom}, 0)
	res, err := synth.Synthesize(context.Background(), filepath.Join(dir, "a.mp4"), "es", "clean", 9)
	require.NoError(t, err)
	assert.Equal(t, vo.SubtitleOriginSample, res.Origin)
}

func TestSynthesizeEmptyTranscriptWritesEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "silent.mp4")
	synth := NewSubtitleSynthesizer(newFakeMedia(), &fakeTranscriber{}, 0)

	res, err := synth.Synthesize(context.Background(), src, "en", "clean", 4)
	require.NoError(t, err)
	assert.Empty(t, res.Segments)
	assert.Empty(t, res.Track)

	track, structured, err := WriteSubtitleFiles(src, res)
	require.NoError(t, err)
	srt, err := os.ReadFile(track)
	require.NoError(t, err)
	assert.Empty(t, srt)

	raw, err := os.ReadFile(structured)
	require.NoError(t, err)
	var segs []vo.SubtitleSegment
	require.NoError(t, json.Unmarshal(raw, &segs))
	assert.NotNil(t, segs)
	assert.Empty(t, segs)
}

func TestDerivePathAndUploadNames(t *testing.T) {
	assert.Equal(t, "/data/v/clip_thumb.jpg", DerivePath("/data/v/clip.mp4", TagThumbnail, "jpg"))
	assert.Equal(t, "/data/v/clip.final_subtitles.srt", DerivePath("/data/v/clip.final.mov", TagSubtitles, ".srt"))
	assert.Equal(t, DerivePath("/a/b.mp4", TagSummary, "txt"), DerivePath("/a/b.mp4", TagSummary, "txt"))

	assert.Equal(t, "my_holiday_clip.mp4", SanitizeFilename("my holiday  clip.mp4"))
	assert.Equal(t, "etc_passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "video", SanitizeFilename("..."))

	dir := t.TempDir()
	p, err := UniqueUploadPath(dir, "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clip.mp4"), p)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mov"), nil, 0o644))
	p, err = UniqueUploadPath(dir, "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clip_1.mp4"), p)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip_1.mp4"), nil, 0o644))
	p, err = UniqueUploadPath(dir, "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clip_2.mp4"), p)
}
