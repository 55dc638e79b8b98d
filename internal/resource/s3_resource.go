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
	s3ResourceOnce      sync.Once
	singletonS3Resource *S3Resource
)

// S3Resource holds the S3 store when storage.mirror is s3.
type S3Resource struct {
	store *storage.S3Store
}

func DefaultS3Resource() *S3Resource {
	assert.NotCircular()
	s3ResourceOnce.Do(func() {
		singletonS3Resource = &S3Resource{}
	})
	assert.NotNil(singletonS3Resource)
	return singletonS3Resource
}

func (r *S3Resource) MustOpen() {
	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before S3Resource")
	}
	if cfg.Storage.Mirror != "s3" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := storage.NewS3Store(ctx, cfg.S3)
	if err != nil {
		panic(fmt.Sprintf("failed to create s3 client: %v", err))
	}
	r.store = store
	logger.Info("S3 resource initialized", map[string]interface{}{
		"bucket":   cfg.S3.Bucket,
		"region":   cfg.S3.Region,
		"endpoint": cfg.S3.Endpoint,
	})
}

func (r *S3Resource) Store() *storage.S3Store { return r.store }

func (r *S3Resource) Enabled() bool { return r.store != nil }

func (r *S3Resource) Close() {}

type S3ResourcePlugin struct{}

func (p *S3ResourcePlugin) Name() string { return "s3Resource" }

func (p *S3ResourcePlugin) MustCreateResource() manager.Resource { return DefaultS3Resource() }
