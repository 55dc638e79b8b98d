package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snipx-service/ddd/application/cqe"
	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/gateway"
	"snipx-service/ddd/domain/port"
	"snipx-service/ddd/domain/service"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/lock"
	"snipx-service/pkg/errno"
)

// mp4Header is enough for content sniffing to report video/mp4.
var mp4Header = append([]byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom"), bytes.Repeat([]byte{0}, 64)...)

type videoAppFixture struct {
	app       VideoApp
	repo      *memVideoRepo
	pipeline  *stubPipeline
	publisher *recordingPublisher
	locker    port.VideoLocker
	dir       string
}

func newVideoAppFixture(t *testing.T, prober stubProber, maxBytes int64) *videoAppFixture {
	t.Helper()
	f := &videoAppFixture{
		repo:      newMemVideoRepo(),
		pipeline:  &stubPipeline{},
		publisher: &recordingPublisher{},
		locker:    lock.NewMemoryLocker(),
		dir:       filepath.Join(t.TempDir(), "uploads"),
	}
	f.app = NewVideoAppWith(VideoAppDeps{
		Repo:           f.repo,
		Pipeline:       f.pipeline,
		Prober:         prober,
		Locker:         f.locker,
		Publisher:      f.publisher,
		UploadDir:      f.dir,
		MaxUploadBytes: maxBytes,
	})
	return f
}

func TestUploadStoresFileAndRecord(t *testing.T) {
	meta := vo.VideoMetadata{Duration: 12.5, Format: "mp4", Resolution: "1280x720", FPS: 30}
	f := newVideoAppFixture(t, stubProber{meta: meta}, 1<<20)

	res, err := f.app.Upload(context.Background(), &cqe.UploadVideoCqe{
		UserID:   "u1",
		Filename: "My Clip.mp4",
		Size:     int64(len(mp4Header)),
		Content:  bytes.NewReader(mp4Header),
	})
	require.NoError(t, err)
	assert.Equal(t, "v1", res.VideoID)
	assert.Equal(t, "uploaded", res.Video.Status)
	assert.Equal(t, meta, res.Video.Metadata)
	assert.Equal(t, int64(len(mp4Header)), res.Video.Size)
	assert.True(t, strings.HasPrefix(res.Video.Filepath, f.dir))

	_, err = os.Stat(res.Video.Filepath)
	assert.NoError(t, err)
	assert.Equal(t, []string{gateway.EventVideoUploaded}, f.publisher.types())
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name    string
		prober  stubProber
		max     int64
		content []byte
		want    *errno.Errno
	}{
		{"not a video", stubProber{}, 1 << 20, []byte("just some text, definitely not a container"), errno.ErrInvalidVideoFile},
		{"empty", stubProber{}, 1 << 20, nil, errno.ErrInvalidVideoFile},
		{"too large", stubProber{}, 16, mp4Header, errno.ErrFileSizeIllegal},
		{"probe fails", stubProber{err: errors.New("moov atom not found")}, 1 << 20, mp4Header, errno.ErrInvalidVideoFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVideoAppFixture(t, tt.prober, tt.max)
			_, err := f.app.Upload(context.Background(), &cqe.UploadVideoCqe{
				UserID:   "u1",
				Filename: "clip.mp4",
				Content:  bytes.NewReader(tt.content),
			})
			require.Error(t, err)
			assert.Equal(t, tt.want.Code, errno.Decode(err).Code)

			entries, _ := os.ReadDir(f.dir)
			assert.Empty(t, entries, "rejected upload must not leave files behind")
			assert.Empty(t, f.repo.videos)
		})
	}
}

func TestUploadRequiresUserAndFile(t *testing.T) {
	f := newVideoAppFixture(t, stubProber{}, 0)
	_, err := f.app.Upload(context.Background(), &cqe.UploadVideoCqe{Filename: "a.mp4", Content: bytes.NewReader(mp4Header)})
	assert.ErrorIs(t, err, errno.ErrUnauthorized)
	_, err = f.app.Upload(context.Background(), &cqe.UploadVideoCqe{UserID: "u1", Filename: "a.mp4"})
	assert.ErrorIs(t, err, errno.ErrMissingParam)
}

func seedVideo(t *testing.T, f *videoAppFixture, owner string) *entity.VideoEntity {
	t.Helper()
	require.NoError(t, os.MkdirAll(f.dir, 0o755))
	src := filepath.Join(f.dir, "clip.mp4")
	require.NoError(t, os.WriteFile(src, mp4Header, 0o644))
	v := entity.NewVideoEntity(owner, "clip.mp4", src, int64(len(mp4Header)), vo.VideoMetadata{Duration: 3})
	require.NoError(t, f.repo.Create(context.Background(), v))
	return v
}

func TestOwnershipChecks(t *testing.T) {
	f := newVideoAppFixture(t, stubProber{}, 0)
	v := seedVideo(t, f, "owner")
	ctx := context.Background()

	_, err := f.app.GetVideo(ctx, "intruder", v.ID())
	assert.ErrorIs(t, err, errno.ErrVideoForbidden)
	_, err = f.app.GetVideo(ctx, "owner", "missing")
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
	_, err = f.app.Process(ctx, &cqe.ProcessVideoCqe{UserID: "intruder", VideoID: v.ID()})
	assert.ErrorIs(t, err, errno.ErrVideoForbidden)
	assert.Zero(t, f.pipeline.calls)
	assert.ErrorIs(t, f.app.DeleteVideo(ctx, "intruder", v.ID()), errno.ErrVideoForbidden)

	list, err := f.app.ListVideos(ctx, "intruder")
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = f.app.ListVideos(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProcessErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *errno.Errno
	}{
		{"no operation", errno.ErrNoOperationRequested, errno.ErrNoOperationRequested},
		{"busy", port.ErrLockHeld, errno.ErrVideoBusy},
		{"operation failed", &service.OperationError{Operation: vo.OperationCutSilence, Err: errors.New("ffmpeg exited 1")}, errno.ErrProcessingFailed},
		{"bad transition", entity.NewDomainError(entity.ErrCodeInvalidTransition, "nope"), errno.ErrInvalidStatus},
		{"unexpected", errors.New("boom"), errno.ErrInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVideoAppFixture(t, stubProber{}, 0)
			v := seedVideo(t, f, "owner")
			f.pipeline.err = tt.err
			_, err := f.app.Process(context.Background(), &cqe.ProcessVideoCqe{UserID: "owner", VideoID: v.ID()})
			require.Error(t, err)
			assert.Equal(t, tt.want.Code, errno.Decode(err).Code)
		})
	}
}

func TestDeleteRemovesFilesAndRecord(t *testing.T) {
	f := newVideoAppFixture(t, stubProber{}, 0)
	v := seedVideo(t, f, "owner")
	ctx := context.Background()

	write := func(name string) string {
		p := filepath.Join(f.dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
		return p
	}
	v.ApplyArtifact(vo.ProcessedVideoArtifact(write("clip_video_enhanced.mp4")))
	v.ApplyArtifact(vo.ThumbnailArtifact(write("clip_thumb.jpg")))
	v.ApplyArtifact(vo.SummaryArtifact(write("clip_summary.txt")))
	v.ApplyArtifact(vo.SubtitlesArtifact(vo.SubtitleOutput{
		TrackPath:      write("clip_subtitles.srt"),
		StructuredPath: write("clip_subtitles.json"),
	}))
	require.NoError(t, f.repo.Replace(ctx, v))
	// superseded in the processed_video slot, no longer recorded
	leftovers := []string{write("clip_processed.mp4"), write("clip_enhanced.mp4"), write("clip_audio.wav")}
	neighbours := []string{write("clip_1.mp4"), write("clip_1_thumb.jpg"), write("other.mp4")}

	removed := append(v.AllPaths(), leftovers...)
	require.Len(t, removed, 9)

	require.NoError(t, f.app.DeleteVideo(ctx, "owner", v.ID()))
	for _, p := range removed {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), p)
	}
	for _, p := range neighbours {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	_, err := f.app.GetVideo(ctx, "owner", v.ID())
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
	assert.Equal(t, []string{gateway.EventVideoDeleted}, f.publisher.types())
}

// vanishingRepo loses the record between the ownership check and the delete.
type vanishingRepo struct {
	*memVideoRepo
}

func (r vanishingRepo) Delete(ctx context.Context, id string) error {
	if err := r.memVideoRepo.Delete(ctx, id); err != nil {
		return err
	}
	return r.memVideoRepo.Delete(ctx, id)
}

func TestDeleteReportsVanishedRecord(t *testing.T) {
	f := newVideoAppFixture(t, stubProber{}, 0)
	v := seedVideo(t, f, "owner")
	f.app = NewVideoAppWith(VideoAppDeps{
		Repo:      vanishingRepo{f.repo},
		Pipeline:  f.pipeline,
		Locker:    f.locker,
		Publisher: f.publisher,
		UploadDir: f.dir,
	})

	err := f.app.DeleteVideo(context.Background(), "owner", v.ID())
	assert.ErrorIs(t, err, errno.ErrVideoNotFound)
	assert.Empty(t, f.publisher.types())
}

func TestDeleteWhileProcessingIsBusy(t *testing.T) {
	f := newVideoAppFixture(t, stubProber{}, 0)
	v := seedVideo(t, f, "owner")
	ctx := context.Background()

	unlock, err := f.locker.TryLock(ctx, v.ID())
	require.NoError(t, err)
	assert.ErrorIs(t, f.app.DeleteVideo(ctx, "owner", v.ID()), errno.ErrVideoBusy)
	unlock()

	_, err = os.Stat(v.Filepath())
	assert.NoError(t, err, "busy delete must not touch files")
	assert.NoError(t, f.app.DeleteVideo(ctx, "owner", v.ID()))
}

func TestSubtitles(t *testing.T) {
	f := newVideoAppFixture(t, stubProber{}, 0)
	v := seedVideo(t, f, "owner")
	ctx := context.Background()

	_, err := f.app.GetSubtitles(ctx, "owner", v.ID())
	assert.ErrorIs(t, err, errno.ErrSubtitlesNotAvailable)

	track := filepath.Join(f.dir, "clip_subtitles.srt")
	structured := filepath.Join(f.dir, "clip_subtitles.json")
	require.NoError(t, os.WriteFile(track, []byte("1\n00:00:00,000 --> 00:00:01,500\nhello\n"), 0o644))
	require.NoError(t, os.WriteFile(structured, []byte(`[{"id":1,"start":0,"end":1.5,"text":"hello","language":"en","style":"clean"}]`), 0o644))

	outputs := vo.Outputs{}
	outputs.Apply(vo.SubtitlesArtifact(vo.SubtitleOutput{
		TrackPath: track, StructuredPath: structured, Language: "en", Style: "clean", Origin: vo.SubtitleOriginTranscription,
	}))
	withSubs := entity.NewVideoEntityWithDetails(v.ID(), "owner", v.Filename(), v.Filepath(), v.Size(),
		vo.VideoStatusCompleted, vo.ProcessingOptions{GenerateSubtitles: true}, v.UploadDate(), nil, nil, nil, v.Metadata(), outputs)
	require.NoError(t, f.repo.Replace(ctx, withSubs))

	subs, err := f.app.GetSubtitles(ctx, "owner", v.ID())
	require.NoError(t, err)
	require.Len(t, subs.Segments, 1)
	assert.Equal(t, "hello", subs.Segments[0].Text)
	assert.Equal(t, "en", subs.Language)

	file, err := f.app.DownloadSubtitles(ctx, "owner", v.ID(), cqe.SubtitleFormatSRT)
	require.NoError(t, err)
	assert.Equal(t, "clip_subtitles.srt", file.Name)
	assert.Equal(t, "application/x-subrip", file.ContentType)
	assert.Contains(t, string(file.Content), "hello")

	file, err = f.app.DownloadSubtitles(ctx, "owner", v.ID(), cqe.SubtitleFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)
}
