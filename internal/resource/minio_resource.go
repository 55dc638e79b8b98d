package resource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"snipx-service/ddd/infrastructure/storage"
	"snipx-service/pkg/assert"
	"snipx-service/pkg/config"
	"snipx-service/pkg/logger"
	"snipx-service/pkg/manager"
)

var (
	minioResourceOnce      sync.Once
	singletonMinioResource *MinioResource
)

// MinioResource 仅在 storage.mirror=minio 时打开
type MinioResource struct {
	store *storage.MinioStore
}

func DefaultMinioResource() *MinioResource {
	assert.NotCircular()
	minioResourceOnce.Do(func() {
		singletonMinioResource = &MinioResource{}
	})
	assert.NotNil(singletonMinioResource)
	return singletonMinioResource
}

func (r *MinioResource) MustOpen() {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before MinioResource")
	}
	if cfg.Storage.Mirror != "minio" {
		return
	}

	store, err := storage.DialMinio(cfg.Minio)
	if err != nil {
		panic(fmt.Sprintf("failed to open minio: %v", err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		panic(fmt.Sprintf("failed to prepare minio bucket: %v", err))
	}
	r.store = store

	logger.Info("MinIO resource initialized", map[string]interface{}{
		"endpoint": cfg.Minio.Endpoint,
		"bucket":   cfg.Minio.BucketName,
	})
}

func (r *MinioResource) Store() *storage.MinioStore { return r.store }

func (r *MinioResource) Enabled() bool { return r.store != nil }

// Close minio-go 无需关闭连接
func (r *MinioResource) Close() {}

type MinioResourcePlugin struct{}

func (p *MinioResourcePlugin) Name() string { return "minioResource" }

func (p *MinioResourcePlugin) MustCreateResource() manager.Resource { return DefaultMinioResource() }
