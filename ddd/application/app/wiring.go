package app

import (
	"time"

	"snipx-service/ddd/domain/gateway"
	"snipx-service/ddd/domain/port"
	"snipx-service/ddd/domain/service"
	"snipx-service/ddd/infrastructure/database/persistence"
	"snipx-service/ddd/infrastructure/event"
	"snipx-service/ddd/infrastructure/executor"
	"snipx-service/ddd/infrastructure/lock"
	"snipx-service/ddd/infrastructure/provider"
	"snipx-service/ddd/infrastructure/storage"
	"snipx-service/internal/resource"
	"snipx-service/pkg/config"
	"snipx-service/pkg/kafka"
	"snipx-service/pkg/logger"
)

// 以下构造函数依赖已打开的资源，只在 Default*App 中调用

func mustConfig() *config.Config {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before application services")
	}
	return cfg
}

func defaultVideoAppDeps() VideoAppDeps {
	cfg := mustConfig()
	videoRepo := persistence.NewVideoRepository(resource.DefaultDatabaseResource().MainDB())
	media := executor.NewFFmpegExecutor(cfg.Media)
	locker := newLocker(cfg)
	mirror := newMirror(cfg)
	publisher := newPublisher(cfg)

	pipeline := service.NewPipelineService(service.PipelineDeps{
		Repo:        videoRepo,
		Media:       media,
		Transcriber: provider.NewTranscriber(cfg.Providers.Transcriber),
		Summarizer:  provider.NewSummarizer(cfg.Providers.Summarizer),
		Locker:      locker,
		Mirror:      mirror,
		Publisher:   publisher,
		Settings:    PipelineSettingsFrom(cfg.Processing),
	})

	return VideoAppDeps{
		Repo:           videoRepo,
		Pipeline:       pipeline,
		Prober:         media,
		Locker:         locker,
		Mirror:         mirror,
		Publisher:      publisher,
		UploadDir:      cfg.Media.UploadDir,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
	}
}

// PipelineSettingsFrom maps the processing config section.
func PipelineSettingsFrom(p config.ProcessingConfig) service.PipelineSettings {
	return service.PipelineSettings{
		SilenceThresholdDB: p.SilenceThresholdDB,
		MinSilence:         time.Duration(p.MinSilenceMs) * time.Millisecond,
		DefaultDuration:    p.DefaultDuration,
		RunTimeout:         p.RunTimeout,
		SummaryMaxLen:      p.SummaryMaxLen,
		SummaryMinLen:      p.SummaryMinLen,
	}
}

func newLocker(cfg *config.Config) port.VideoLocker {
	if r := resource.DefaultRedisResource(); r.Enabled() {
		logger.Infof("Video lock backend=redis ttl=%s", cfg.Redis.LockTTL)
		return lock.NewRedisLocker(r.Client(), cfg.Redis.LockTTL)
	}
	logger.Infof("Video lock backend=memory")
	return lock.NewMemoryLocker()
}

func newMirror(cfg *config.Config) gateway.ArtifactMirror {
	switch cfg.Storage.Mirror {
	case "minio":
		if r := resource.DefaultMinioResource(); r.Enabled() {
			return storage.NewArtifactMirror(r.Store(), cfg.Storage.KeyPrefix)
		}
	case "s3":
		if r := resource.DefaultS3Resource(); r.Enabled() {
			return storage.NewArtifactMirror(r.Store(), cfg.Storage.KeyPrefix)
		}
	}
	return nil
}

func newPublisher(cfg *config.Config) gateway.EventPublisher {
	if !cfg.Kafka.Enabled {
		return nil
	}
	return event.NewKafkaPublisher(kafka.DefaultClient(), cfg.Kafka.Topics.VideoEvents)
}
