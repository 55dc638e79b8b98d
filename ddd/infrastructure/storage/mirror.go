package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"snipx-service/ddd/domain/gateway"
	"snipx-service/pkg/logger"
)

// ObjectStore is the narrow bucket API a mirror needs.
type ObjectStore interface {
	PutFile(ctx context.Context, key, localPath, contentType string) error
	Delete(ctx context.Context, key string) error
	Name() string
}

var _ gateway.ArtifactMirror = (*ArtifactMirror)(nil)

// ArtifactMirror copies local artifacts to <prefix>/<video id>/<file name>.
type ArtifactMirror struct {
	store  ObjectStore
	prefix string
}

func NewArtifactMirror(store ObjectStore, prefix string) *ArtifactMirror {
	return &ArtifactMirror{store: store, prefix: strings.Trim(prefix, "/")}
}

// ObjectKey returns the bucket key a local file is mirrored to.
func (m *ArtifactMirror) ObjectKey(videoID, localPath string) string {
	return path.Join(m.prefix, videoID, filepath.Base(localPath))
}

func (m *ArtifactMirror) Mirror(ctx context.Context, videoID string, paths []string) ([]string, error) {
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		key := m.ObjectKey(videoID, p)
		if err := m.store.PutFile(ctx, key, p, contentTypeFor(p)); err != nil {
			logger.Error("Failed to mirror artifact", map[string]interface{}{
				"store":      m.store.Name(),
				"local_path": p,
				"object_key": key,
				"error":      err.Error(),
			})
			return keys, fmt.Errorf("mirror %s: %w", filepath.Base(p), err)
		}
		keys = append(keys, key)
	}
	logger.Info("Artifacts mirrored", map[string]interface{}{
		"store":    m.store.Name(),
		"video_id": videoID,
		"count":    len(keys),
	})
	return keys, nil
}

// Remove keeps going after a failed delete and reports every failure.
func (m *ArtifactMirror) Remove(ctx context.Context, videoID string, paths []string) error {
	var errs []error
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := m.store.Delete(ctx, m.ObjectKey(videoID, p)); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", filepath.Base(p), err))
		}
	}
	return errors.Join(errs...)
}

// contentTypeFor 根据文件扩展名获取内容类型
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".avi":
		return "video/x-msvideo"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".srt":
		return "application/x-subrip"
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
