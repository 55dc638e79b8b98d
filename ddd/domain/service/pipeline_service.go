package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/gateway"
	"snipx-service/ddd/domain/port"
	"snipx-service/ddd/domain/repo"
	"snipx-service/ddd/domain/vo"
	"snipx-service/pkg/logger"
	"snipx-service/pkg/observability"
)

// OperationError is returned when one stage of a run fails. The video has already
// been persisted as failed with the same message.
type OperationError struct {
	Operation vo.Operation
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// PipelineService 处理流水线领域服务
type PipelineService interface {
	// Run executes the requested operations in order against video and returns the
	// persisted result. The returned entity is non-nil whenever the run started.
	Run(ctx context.Context, video *entity.VideoEntity, options vo.ProcessingOptions) (*entity.VideoEntity, error)
}

// PipelineSettings 流水线参数
type PipelineSettings struct {
	SilenceThresholdDB float64
	MinSilence         time.Duration
	DefaultDuration    time.Duration
	RunTimeout         time.Duration
	SummaryMaxLen      int
	SummaryMinLen      int
}

// PipelineDeps 流水线依赖；Transcriber、Summarizer、Mirror、Publisher 可以为空
type PipelineDeps struct {
	Repo        repo.VideoRepository
	Media       port.MediaToolkit
	Transcriber port.Transcriber
	Summarizer  port.Summarizer
	Locker      port.VideoLocker
	Mirror      gateway.ArtifactMirror
	Publisher   gateway.EventPublisher
	Settings    PipelineSettings
	Clock       func() time.Time
}

type pipelineServiceImpl struct {
	repo      repo.VideoRepository
	media     port.MediaToolkit
	locker    port.VideoLocker
	mirror    gateway.ArtifactMirror
	publisher gateway.EventPublisher
	subtitles *SubtitleSynthesizer
	summary   *SummaryService
	settings  PipelineSettings
	now       func() time.Time
	stages    []stage
}

type stageFunc func(ctx context.Context, rc *runState) (vo.Artifact, error)

// stage is one row of the ordered stage table.
type stage struct {
	op  vo.Operation
	run stageFunc
}

// runState carries what a stage needs from earlier stages of the same run.
type runState struct {
	video   *entity.VideoEntity
	options vo.ProcessingOptions
	// currentVideo is the processed video produced so far in this run, or the source.
	currentVideo string
}

// NewPipelineService 创建流水线服务
func NewPipelineService(deps PipelineDeps) PipelineService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	s := &pipelineServiceImpl{
		repo:      deps.Repo,
		media:     deps.Media,
		locker:    deps.Locker,
		mirror:    deps.Mirror,
		publisher: deps.Publisher,
		subtitles: NewSubtitleSynthesizer(deps.Media, deps.Transcriber, deps.Settings.DefaultDuration),
		summary:   NewSummaryService(deps.Media, deps.Transcriber, deps.Summarizer, deps.Settings.SummaryMaxLen, deps.Settings.SummaryMinLen),
		settings:  deps.Settings,
		now:       clock,
	}
	s.stages = buildStages(map[vo.Operation]stageFunc{
		vo.OperationCutSilence:        s.cutSilence,
		vo.OperationEnhanceAudio:      s.enhanceAudio,
		vo.OperationGenerateThumbnail: s.generateThumbnail,
		vo.OperationGenerateSubtitles: s.generateSubtitles,
		vo.OperationSummarize:         s.summarize,
		vo.OperationEnhanceVideo:      s.enhanceVideo,
	})
	return s
}

// buildStages 按 vo.OperationOrder 排列 handler，缺少任何一个都是编程错误
func buildStages(handlers map[vo.Operation]stageFunc) []stage {
	stages := make([]stage, 0, len(vo.OperationOrder))
	for _, op := range vo.OperationOrder {
		run, ok := handlers[op]
		if !ok {
			panic(fmt.Sprintf("pipeline: no handler for operation %s", op))
		}
		stages = append(stages, stage{op: op, run: run})
	}
	if len(handlers) != len(stages) {
		panic("pipeline: handler registered for an operation outside OperationOrder")
	}
	return stages
}

func (s *pipelineServiceImpl) Run(ctx context.Context, video *entity.VideoEntity, options vo.ProcessingOptions) (result *entity.VideoEntity, runErr error) {
	options.Normalize()
	if err := options.Validate(); err != nil {
		return nil, err
	}

	unlock, err := s.locker.TryLock(ctx, video.ID())
	if err != nil {
		return nil, err
	}
	defer unlock()

	// the caller's copy may predate a run that finished while we waited for the lock
	fresh, err := s.repo.Get(ctx, video.ID())
	if err != nil {
		return nil, fmt.Errorf("reload video: %w", err)
	}
	video = fresh
	// 持锁时仍为 processing，说明上一次运行中途崩溃
	if video.Status() == vo.VideoStatusProcessing {
		logger.Warnf("video left in processing by an interrupted run, restarting video_id=%s", video.ID())
		if err := video.Fail("interrupted", s.now()); err != nil {
			return nil, err
		}
	}

	if err := video.StartProcessing(options, s.now()); err != nil {
		return nil, err
	}
	logger.Infof("start processing video_id=%s operations=%v", video.ID(), options.Requested())

	defer func() {
		// persist exactly once, even when the run context is already cancelled
		saveCtx := context.WithoutCancel(ctx)
		if err := s.repo.Replace(saveCtx, video); err != nil {
			logger.Errorf("persist video failed video_id=%s error=%s", video.ID(), err.Error())
			if runErr == nil {
				runErr = fmt.Errorf("persist video: %w", err)
			}
			result = video
			return
		}
		observability.ObserveRun(video.Status().String())
		s.afterRun(saveCtx, video, options)
		result = video
	}()

	runCtx := ctx
	if s.settings.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.settings.RunTimeout)
		defer cancel()
	}

	state := &runState{video: video, options: options, currentVideo: video.Filepath()}
	for _, st := range s.stages {
		if !options.Enabled(st.op) {
			continue
		}
		started := time.Now()
		artifact, err := st.run(runCtx, state)
		if err == nil {
			err = runCtx.Err()
		}
		observability.ObserveStage(st.op.String(), time.Since(started), err)
		if err != nil {
			opErr := &OperationError{Operation: st.op, Err: err}
			logger.Errorf("operation failed video_id=%s error=%s", video.ID(), opErr.Error())
			if ferr := video.Fail(opErr.Error(), s.now()); ferr != nil {
				return video, ferr
			}
			return video, opErr
		}
		var superseded string
		if artifact.Slot == vo.SlotProcessedVideo && video.Outputs().ProcessedVideo != nil {
			superseded = *video.Outputs().ProcessedVideo
		}
		video.ApplyArtifact(artifact)
		if artifact.Slot == vo.SlotProcessedVideo {
			state.currentVideo = artifact.Path
			s.removeSuperseded(video, superseded, artifact.Path)
		}
		logger.Debugf("operation finished video_id=%s operation=%s elapsed=%s", video.ID(), st.op, time.Since(started))
	}

	if err := video.Complete(s.now()); err != nil {
		return video, err
	}
	logger.Infof("processing completed video_id=%s outputs=%v", video.ID(), video.Outputs().PresentSlots())
	return video, nil
}

// removeSuperseded 删除被新 processed_video 替换掉的旧文件，源文件永不删除
func (s *pipelineServiceImpl) removeSuperseded(video *entity.VideoEntity, old, current string) {
	if old == "" || old == current || old == video.Filepath() {
		return
	}
	if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
		logger.Warnf("remove superseded artifact failed video_id=%s path=%s error=%s", video.ID(), old, err.Error())
	}
}

// afterRun publishes the result and mirrors artifacts. Failures are only logged.
func (s *pipelineServiceImpl) afterRun(ctx context.Context, video *entity.VideoEntity, options vo.ProcessingOptions) {
	if s.publisher != nil {
		ops := make([]string, 0, len(options.Requested()))
		for _, op := range options.Requested() {
			ops = append(ops, op.String())
		}
		slots := make([]string, 0, 4)
		for _, slot := range video.Outputs().PresentSlots() {
			slots = append(slots, string(slot))
		}
		event := gateway.VideoEvent{
			Type:       gateway.EventVideoProcessed,
			VideoID:    video.ID(),
			UserID:     video.UserID(),
			Status:     video.Status().String(),
			Error:      video.ErrorMessage(),
			Operations: ops,
			Outputs:    slots,
			OccurredAt: s.now(),
		}
		if err := s.publisher.PublishVideoEvent(ctx, event); err != nil {
			logger.Warnf("publish video event failed video_id=%s error=%s", video.ID(), err.Error())
		}
	}

	if s.mirror != nil && video.Status() == vo.VideoStatusCompleted {
		if _, err := s.mirror.Mirror(ctx, video.ID(), video.Outputs().Paths()); err != nil {
			logger.Warnf("mirror artifacts failed video_id=%s error=%s", video.ID(), err.Error())
		}
	}
}

func (s *pipelineServiceImpl) cutSilence(ctx context.Context, rc *runState) (vo.Artifact, error) {
	out := DerivePath(rc.video.Filepath(), TagProcessed, "mp4")
	if err := s.media.CutSilence(ctx, rc.currentVideo, out, s.settings.SilenceThresholdDB, s.settings.MinSilence); err != nil {
		return vo.Artifact{}, err
	}
	return vo.ProcessedVideoArtifact(out), nil
}

func (s *pipelineServiceImpl) enhanceAudio(ctx context.Context, rc *runState) (vo.Artifact, error) {
	out := DerivePath(rc.video.Filepath(), TagEnhanced, "mp4")
	if err := s.media.EnhanceAudio(ctx, rc.currentVideo, out, rc.options.AudioEnhancementType); err != nil {
		return vo.Artifact{}, err
	}
	return vo.ProcessedVideoArtifact(out), nil
}

func (s *pipelineServiceImpl) generateThumbnail(ctx context.Context, rc *runState) (vo.Artifact, error) {
	out := DerivePath(rc.video.Filepath(), TagThumbnail, "jpg")
	offset := rc.video.Metadata().Duration / 2
	if offset < 0 {
		offset = 0
	}
	if err := s.media.SampleFrame(ctx, rc.video.Filepath(), out, offset); err != nil {
		return vo.Artifact{}, err
	}
	return vo.ThumbnailArtifact(out), nil
}

func (s *pipelineServiceImpl) generateSubtitles(ctx context.Context, rc *runState) (vo.Artifact, error) {
	source := rc.video.Filepath()
	res, err := s.subtitles.Synthesize(ctx, source, rc.options.SubtitleLanguage, rc.options.SubtitleStyle, rc.video.Metadata().Duration)
	if err != nil {
		return vo.Artifact{}, err
	}
	track, structured, err := WriteSubtitleFiles(source, res)
	if err != nil {
		return vo.Artifact{}, err
	}
	return vo.SubtitlesArtifact(vo.SubtitleOutput{
		TrackPath:      track,
		StructuredPath: structured,
		Language:       rc.options.SubtitleLanguage,
		Style:          rc.options.SubtitleStyle,
		Origin:         res.Origin,
	}), nil
}

func (s *pipelineServiceImpl) summarize(ctx context.Context, rc *runState) (vo.Artifact, error) {
	out, err := s.summary.Summarize(ctx, rc.video.Filepath(), rc.options.SubtitleLanguage)
	if err != nil {
		return vo.Artifact{}, err
	}
	return vo.SummaryArtifact(out), nil
}

func (s *pipelineServiceImpl) enhanceVideo(ctx context.Context, rc *runState) (vo.Artifact, error) {
	out := DerivePath(rc.video.Filepath(), TagVideoEnhanced, "mp4")
	params := port.VideoEnhanceParams{
		Stabilization: rc.options.Stabilization,
		Brightness:    rc.options.Brightness,
		Contrast:      rc.options.Contrast,
	}
	if err := s.media.EnhanceVideo(ctx, rc.currentVideo, out, params); err != nil {
		return vo.Artifact{}, err
	}
	return vo.ProcessedVideoArtifact(out), nil
}

// IsOperationError reports whether err came from a failed stage.
func IsOperationError(err error) bool {
	var opErr *OperationError
	return errors.As(err, &opErr)
}
