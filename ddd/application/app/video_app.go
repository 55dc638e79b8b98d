package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"snipx-service/ddd/application/cqe"
	"snipx-service/ddd/application/dto"
	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/gateway"
	"snipx-service/ddd/domain/port"
	"snipx-service/ddd/domain/repo"
	"snipx-service/ddd/domain/service"
	"snipx-service/pkg/assert"
	"snipx-service/pkg/errno"
	"snipx-service/pkg/logger"
)

var (
	singleVideoApp VideoApp
	onceVideoApp   sync.Once
)

type VideoApp interface {
	// Upload 保存上传文件并创建视频记录
	Upload(ctx context.Context, req *cqe.UploadVideoCqe) (*dto.UploadResultDTO, error)
	// Process 同步执行处理流水线
	Process(ctx context.Context, req *cqe.ProcessVideoCqe) (*dto.VideoDTO, error)
	GetVideo(ctx context.Context, userID, videoID string) (*dto.VideoDTO, error)
	ListVideos(ctx context.Context, userID string) ([]*dto.VideoDTO, error)
	// DeleteVideo 删除源文件、所有产物、镜像对象以及记录
	DeleteVideo(ctx context.Context, userID, videoID string) error
	GetSubtitles(ctx context.Context, userID, videoID string) (*dto.SubtitlesDTO, error)
	DownloadSubtitles(ctx context.Context, userID, videoID string, format cqe.SubtitleFormat) (*dto.FileDTO, error)
}

// VideoAppDeps Mirror and Publisher may be nil.
type VideoAppDeps struct {
	Repo           repo.VideoRepository
	Pipeline       service.PipelineService
	Prober         port.Prober
	Locker         port.VideoLocker
	Mirror         gateway.ArtifactMirror
	Publisher      gateway.EventPublisher
	UploadDir      string
	MaxUploadBytes int64
	Clock          func() time.Time
}

type videoAppImpl struct {
	repo           repo.VideoRepository
	pipeline       service.PipelineService
	prober         port.Prober
	locker         port.VideoLocker
	mirror         gateway.ArtifactMirror
	publisher      gateway.EventPublisher
	uploadDir      string
	maxUploadBytes int64
	now            func() time.Time
}

func DefaultVideoApp() VideoApp {
	assert.NotCircular()
	onceVideoApp.Do(func() {
		singleVideoApp = NewVideoAppWith(defaultVideoAppDeps())
	})
	assert.NotNil(singleVideoApp)
	return singleVideoApp
}

func NewVideoAppWith(deps VideoAppDeps) VideoApp {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &videoAppImpl{
		repo:           deps.Repo,
		pipeline:       deps.Pipeline,
		prober:         deps.Prober,
		locker:         deps.Locker,
		mirror:         deps.Mirror,
		publisher:      deps.Publisher,
		uploadDir:      deps.UploadDir,
		maxUploadBytes: deps.MaxUploadBytes,
		now:            clock,
	}
}

func (a *videoAppImpl) Upload(ctx context.Context, req *cqe.UploadVideoCqe) (*dto.UploadResultDTO, error) {
	if err := req.Validate(a.maxUploadBytes); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		return nil, errno.NewBizError(errno.ErrUploadError, err)
	}
	dest, err := service.UniqueUploadPath(a.uploadDir, req.Filename)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrUploadError, err)
	}

	size, err := a.store(dest, req.Content)
	if err != nil {
		_ = os.Remove(dest)
		return nil, err
	}

	mt, err := mimetype.DetectFile(dest)
	if err != nil || !strings.HasPrefix(mt.String(), "video/") {
		_ = os.Remove(dest)
		detected := "unknown"
		if mt != nil {
			detected = mt.String()
		}
		return nil, errno.NewBizError(errno.ErrInvalidVideoFile, fmt.Errorf("detected type %s", detected))
	}

	metadata, err := a.prober.Probe(ctx, dest)
	if err != nil {
		_ = os.Remove(dest)
		return nil, errno.NewBizError(errno.ErrInvalidVideoFile, err)
	}

	video := entity.NewVideoEntity(req.UserID, filepath.Base(dest), dest, size, metadata)
	if err := a.repo.Create(ctx, video); err != nil {
		_ = os.Remove(dest)
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}

	logger.Info("Video uploaded", map[string]interface{}{
		"video_id": video.ID(),
		"user_id":  video.UserID(),
		"filepath": dest,
		"size":     size,
		"mime":     mt.String(),
	})
	a.publish(ctx, gateway.EventVideoUploaded, video)

	return &dto.UploadResultDTO{
		VideoID: video.ID(),
		Message: "Video uploaded successfully",
		Video:   dto.NewVideoDTO(video),
	}, nil
}

// store copies r into dest, refusing anything larger than maxUploadBytes.
func (a *videoAppImpl) store(dest string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, errno.NewBizError(errno.ErrUploadError, err)
	}
	defer f.Close()

	src := r
	if a.maxUploadBytes > 0 {
		src = io.LimitReader(r, a.maxUploadBytes+1)
	}
	n, err := io.Copy(f, src)
	if err != nil {
		return 0, errno.NewBizError(errno.ErrUploadError, err)
	}
	if a.maxUploadBytes > 0 && n > a.maxUploadBytes {
		return 0, errno.ErrFileSizeIllegal
	}
	if n == 0 {
		return 0, errno.NewBizError(errno.ErrInvalidVideoFile, errors.New("empty file"))
	}
	return n, nil
}

func (a *videoAppImpl) Process(ctx context.Context, req *cqe.ProcessVideoCqe) (*dto.VideoDTO, error) {
	video, err := a.loadOwned(ctx, req.UserID, req.VideoID)
	if err != nil {
		return nil, err
	}
	result, err := a.pipeline.Run(ctx, video, req.Options)
	if err != nil {
		logger.Warnf("processing run rejected or failed video_id=%s error=%v", req.VideoID, err)
		return nil, mapProcessError(err)
	}
	return dto.NewVideoDTO(result), nil
}

// mapProcessError translates domain errors into errno codes.
func mapProcessError(err error) error {
	var code *errno.Errno
	var opErr *service.OperationError
	switch {
	case errors.As(err, &code):
		return err
	case errors.Is(err, port.ErrLockHeld):
		return errno.ErrVideoBusy
	case errors.As(err, &opErr):
		return errno.NewBizError(errno.ErrProcessingFailed, err)
	case entity.IsDomainError(err, entity.ErrCodeInvalidTransition):
		return errno.NewBizError(errno.ErrInvalidStatus, err)
	case errors.Is(err, repo.ErrRecordNotFound):
		return errno.ErrVideoNotFound
	default:
		return errno.NewBizError(errno.ErrInternalServer, err)
	}
}

func (a *videoAppImpl) GetVideo(ctx context.Context, userID, videoID string) (*dto.VideoDTO, error) {
	video, err := a.loadOwned(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	return dto.NewVideoDTO(video), nil
}

func (a *videoAppImpl) ListVideos(ctx context.Context, userID string) ([]*dto.VideoDTO, error) {
	list, err := a.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewVideoDTOs(list), nil
}

func (a *videoAppImpl) DeleteVideo(ctx context.Context, userID, videoID string) error {
	video, err := a.loadOwned(ctx, userID, videoID)
	if err != nil {
		return err
	}
	// 处理中的视频不能删除
	unlock, err := a.locker.TryLock(ctx, videoID)
	if err != nil {
		return mapProcessError(err)
	}
	defer unlock()

	paths := deletablePaths(video)
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warnf("remove video file failed video_id=%s path=%s error=%v", videoID, p, err)
		}
	}
	if a.mirror != nil {
		if err := a.mirror.Remove(ctx, videoID, paths); err != nil {
			logger.Warnf("remove mirrored artifacts failed video_id=%s error=%v", videoID, err)
		}
	}
	if err := a.repo.Delete(ctx, videoID); err != nil {
		if errors.Is(err, repo.ErrRecordNotFound) {
			return errno.ErrVideoNotFound
		}
		return errno.NewBizError(errno.ErrDatabase, err)
	}
	logger.Infof("Video deleted video_id=%s files=%d", videoID, len(paths))
	a.publish(ctx, gateway.EventVideoDeleted, video)
	return nil
}

// deletablePaths 源文件、已记录的产物以及所有可能遗留的派生文件，去重
func deletablePaths(video *entity.VideoEntity) []string {
	seen := map[string]struct{}{}
	var paths []string
	for _, p := range append(video.AllPaths(), service.DerivedPaths(video.Filepath())...) {
		if _, ok := seen[p]; ok || p == "" {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	return paths
}

func (a *videoAppImpl) GetSubtitles(ctx context.Context, userID, videoID string) (*dto.SubtitlesDTO, error) {
	video, err := a.loadOwned(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	sub := video.Outputs().Subtitles
	if sub == nil {
		return nil, errno.ErrSubtitlesNotAvailable
	}
	segments, err := service.ReadSubtitleSegments(sub.StructuredPath)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrSubtitlesNotAvailable, err)
	}
	return &dto.SubtitlesDTO{
		VideoID:  video.ID(),
		Language: sub.Language,
		Style:    sub.Style,
		Origin:   string(sub.Origin),
		Segments: segments,
	}, nil
}

func (a *videoAppImpl) DownloadSubtitles(ctx context.Context, userID, videoID string, format cqe.SubtitleFormat) (*dto.FileDTO, error) {
	video, err := a.loadOwned(ctx, userID, videoID)
	if err != nil {
		return nil, err
	}
	sub := video.Outputs().Subtitles
	if sub == nil {
		return nil, errno.ErrSubtitlesNotAvailable
	}
	path, contentType := sub.TrackPath, "application/x-subrip"
	if format == cqe.SubtitleFormatJSON {
		path, contentType = sub.StructuredPath, "application/json"
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrSubtitlesNotAvailable, err)
	}
	return &dto.FileDTO{Name: filepath.Base(path), ContentType: contentType, Content: content}, nil
}

func (a *videoAppImpl) loadOwned(ctx context.Context, userID, videoID string) (*entity.VideoEntity, error) {
	if videoID == "" {
		return nil, errno.ErrMissingParam
	}
	video, err := a.repo.Get(ctx, videoID)
	if errors.Is(err, repo.ErrRecordNotFound) {
		return nil, errno.ErrVideoNotFound
	}
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if !video.IsOwnedBy(userID) {
		return nil, errno.ErrVideoForbidden
	}
	return video, nil
}

func (a *videoAppImpl) publish(ctx context.Context, eventType string, video *entity.VideoEntity) {
	if a.publisher == nil {
		return
	}
	event := gateway.VideoEvent{
		Type:       eventType,
		VideoID:    video.ID(),
		UserID:     video.UserID(),
		Status:     video.Status().String(),
		OccurredAt: a.now(),
	}
	if err := a.publisher.PublishVideoEvent(ctx, event); err != nil {
		logger.Warnf("publish video event failed type=%s video_id=%s error=%v", eventType, video.ID(), err)
	}
}
