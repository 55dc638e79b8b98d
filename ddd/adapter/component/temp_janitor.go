package component

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"snipx-service/ddd/domain/service"
	"snipx-service/pkg/config"
	"snipx-service/pkg/logger"
)

// TempJanitor 定时清理中途失败遗留的临时音频文件
type TempJanitor struct {
	dirs     []string
	schedule string
	maxAge   time.Duration
	now      func() time.Time

	cron *cron.Cron
}

// NewTempJanitor sweeps the upload and temp directories on cfg.Schedule.
func NewTempJanitor(media config.MediaConfig, cfg config.JanitorConfig) *TempJanitor {
	dirs := []string{media.UploadDir}
	if media.TempDir != "" && media.TempDir != media.UploadDir {
		dirs = append(dirs, media.TempDir)
	}
	return &TempJanitor{
		dirs:     dirs,
		schedule: cfg.Schedule,
		maxAge:   cfg.MaxAge,
		now:      time.Now,
	}
}

func (j *TempJanitor) Name() string { return "tempJanitor" }

func (j *TempJanitor) Start(ctx context.Context) error {
	j.cron = cron.New()
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Sweep(ctx) }); err != nil {
		return err
	}
	j.cron.Start()
	logger.Infof("Temp janitor scheduled schedule=%s max_age=%s dirs=%v", j.schedule, j.maxAge, j.dirs)
	return nil
}

func (j *TempJanitor) Stop() error {
	if j.cron == nil {
		return nil
	}
	<-j.cron.Stop().Done()
	return nil
}

// Sweep removes stale temp audio files and returns how many were deleted.
func (j *TempJanitor) Sweep(ctx context.Context) int {
	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	for _, dir := range j.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logger.Warnf("janitor read dir failed dir=%s error=%v", dir, err)
			}
			continue
		}
		for _, e := range entries {
			if ctx.Err() != nil {
				return removed
			}
			if e.IsDir() || !isTempAudio(e.Name()) {
				continue
			}
			info, err := e.Info()
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.Warnf("janitor remove failed path=%s error=%v", path, err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		logger.Infof("Temp janitor swept files=%d", removed)
	}
	return removed
}

func isTempAudio(name string) bool {
	return strings.HasSuffix(name, "_"+service.TagAudio+".wav")
}
