package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipx-service/ddd/domain/port"
	"snipx-service/pkg/config"
)

func TestFactoryDisabledOrMisconfigured(t *testing.T) {
	assert.Nil(t, NewTranscriber(config.TranscriberConfig{Driver: "none"}))
	assert.Nil(t, NewTranscriber(config.TranscriberConfig{Driver: "openai"}), "missing api key")
	assert.Nil(t, NewTranscriber(config.TranscriberConfig{Driver: "vosk"}))

	assert.Nil(t, NewSummarizer(config.SummarizerConfig{}))
	assert.Nil(t, NewSummarizer(config.SummarizerConfig{Driver: "cohere"}))
	assert.Nil(t, NewSummarizer(config.SummarizerConfig{Driver: "openai"}))
	assert.Nil(t, NewSummarizer(config.SummarizerConfig{Driver: "bart"}))

	assert.NotNil(t, NewSummarizer(config.SummarizerConfig{Driver: "Cohere", APIKey: "k"}))
	assert.NotNil(t, NewTranscriber(config.TranscriberConfig{Driver: "openai", APIKey: "k"}))
}

func TestClampSummary(t *testing.T) {
	assert.Equal(t, "a b c", clampSummary("  a b\n c d e", 3))
	assert.Equal(t, "a b", clampSummary("a   b", 10))
}

func TestWhisperRejectsUnknownLanguage(t *testing.T) {
	w, err := NewWhisperTranscriber(config.TranscriberConfig{APIKey: "k"})
	require.NoError(t, err)
	_, err = w.Transcribe(context.Background(), "/does/not/matter.wav", "ru-ur")
	assert.ErrorIs(t, err, port.ErrLanguageUnsupported)
}

func TestWhisperParsesVerboseSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/audio/transcriptions"), r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "fr", r.FormValue("language"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"bonjour a tous","segments":[
			{"id":0,"start":0.0,"end":1.4,"text":" bonjour"},
			{"id":1,"start":1.4,"end":2.9,"text":" a tous "}]}`))
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "clip_audio.wav")
	require.NoError(t, os.WriteFile(audio, []byte("RIFF"), 0o644))

	w, err := NewWhisperTranscriber(config.TranscriberConfig{APIKey: "k", BaseURL: srv.URL + "/v1/"})
	require.NoError(t, err)
	segs, err := w.Transcribe(context.Background(), audio, "fr")
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, "bonjour", segs[0].Text)
	assert.Equal(t, 1.4, segs[1].Start)
	assert.Equal(t, "a tous", segs[1].Text)
}
