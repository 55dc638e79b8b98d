package repo

import (
	"context"
	"errors"

	"snipx-service/ddd/domain/entity"
)

// ErrRecordNotFound is returned by repositories when no row matches.
var ErrRecordNotFound = errors.New("record not found")

// VideoRepository 视频记录仓储接口
type VideoRepository interface {
	// Create 创建记录并回填ID
	Create(ctx context.Context, video *entity.VideoEntity) error

	// Get 根据ID获取，不存在时返回 ErrRecordNotFound
	Get(ctx context.Context, id string) (*entity.VideoEntity, error)

	// Replace 整体覆盖保存，记录不存在时返回 ErrRecordNotFound
	Replace(ctx context.Context, video *entity.VideoEntity) error

	// Delete 删除记录，记录不存在时返回 ErrRecordNotFound
	Delete(ctx context.Context, id string) error

	// ListByOwner 按上传时间倒序列出用户的视频
	ListByOwner(ctx context.Context, userID string) ([]*entity.VideoEntity, error)
}
