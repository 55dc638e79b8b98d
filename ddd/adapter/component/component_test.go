package component

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipx-service/ddd/application/app"
	"snipx-service/ddd/application/cqe"
	"snipx-service/ddd/application/dto"
	"snipx-service/pkg/config"
	"snipx-service/pkg/errno"
	"snipx-service/pkg/manager"
)

type scriptedReader struct {
	mu        sync.Mutex
	msgs      []kafkago.Message
	committed []int64
	closed    bool
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return kafkago.Message{}, io.EOF
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

type recordingVideoApp struct {
	app.VideoApp
	mu   sync.Mutex
	reqs []cqe.ProcessVideoCqe
	fail map[string]error
}

func (a *recordingVideoApp) Process(_ context.Context, req *cqe.ProcessVideoCqe) (*dto.VideoDTO, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reqs = append(a.reqs, *req)
	if err := a.fail[req.VideoID]; err != nil {
		return nil, err
	}
	return &dto.VideoDTO{ID: req.VideoID, Status: "completed"}, nil
}

func TestProcessRequestConsumer(t *testing.T) {
	tests := []struct {
		name   string
		policy ConsumerPolicy
		want   []int64
	}{
		{"keep bad payloads", ConsumerPolicy{}, []int64{0, 2, 4, 5}},
		{"drop bad payloads", ConsumerPolicy{CommitOnDecodeError: true}, []int64{0, 1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := &scriptedReader{msgs: []kafkago.Message{
				{Offset: 0, Value: []byte(`{"video_id":"v1","user_id":"u1","options":{"generate_thumbnail":true,"subtitle_language":"fr"}}`)},
				{Offset: 1, Value: []byte(`not json`)},
				{Offset: 2, Value: []byte(`{"video_id":"busy","user_id":"u1","options":{"summarize":true}}`)},
				{Offset: 3, Value: []byte(`{"video_id":"v2"}`)},
				{Offset: 4, Value: []byte(`{"video_id":"gone","user_id":"u1","options":{"summarize":true}}`)},
				{Offset: 5, Value: []byte(`{"video_id":"broken","user_id":"u1","options":{"cut_silence":true}}`)},
			}}
			videos := &recordingVideoApp{fail: map[string]error{
				"busy":   errno.ErrVideoBusy,
				"gone":   errno.ErrVideoNotFound,
				"broken": errno.ErrProcessingFailed,
			}}
			c := NewProcessRequestConsumer(videos, reader, tt.policy)

			require.NoError(t, c.Start())
			require.NoError(t, c.Stop())

			// failed runs are committed too, nothing is fed back for a retry
			assert.Equal(t, tt.want, reader.committed)
			assert.True(t, reader.closed)
			require.Len(t, videos.reqs, 4)
			assert.Equal(t, "u1", videos.reqs[0].UserID)
			assert.True(t, videos.reqs[0].Options.GenerateThumbnail)
			assert.Equal(t, "fr", videos.reqs[0].Options.SubtitleLanguage)
		})
	}
}

func TestPluginSkipsWhenKafkaDisabled(t *testing.T) {
	p := &ProcessRequestConsumerPlugin{}
	cfg := config.Default()
	cfg.Kafka.Enabled = false
	assert.Nil(t, p.MustCreateComponent(&manager.Dependencies{Config: cfg}))
}

func TestJanitorSweepsOnlyStaleTempAudio(t *testing.T) {
	uploads, tmp := t.TempDir(), t.TempDir()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-7 * time.Hour)
	fresh := now.Add(-10 * time.Minute)

	write := func(dir, name string, mtime time.Time) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(p, mtime, mtime))
		return p
	}
	staleUpload := write(uploads, "clip_audio.wav", old)
	staleTmp := write(tmp, "other_audio.wav", old)
	freshAudio := write(uploads, "new_audio.wav", fresh)
	source := write(uploads, "clip.mp4", old)
	thumb := write(uploads, "clip_thumb.jpg", old)

	j := NewTempJanitor(config.MediaConfig{UploadDir: uploads, TempDir: tmp}, config.JanitorConfig{Schedule: "@every 30m", MaxAge: 6 * time.Hour})
	j.now = func() time.Time { return now }

	assert.Equal(t, 2, j.Sweep(context.Background()))
	for _, p := range []string{staleUpload, staleTmp} {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), p)
	}
	for _, p := range []string{freshAudio, source, thumb} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestJanitorRejectsBadSchedule(t *testing.T) {
	j := NewTempJanitor(config.MediaConfig{UploadDir: t.TempDir()}, config.JanitorConfig{Schedule: "whenever", MaxAge: time.Hour})
	assert.Error(t, j.Start(context.Background()))
	assert.NoError(t, j.Stop())
}
