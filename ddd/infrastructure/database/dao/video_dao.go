package dao

import (
	"context"

	"gorm.io/gorm"

	"snipx-service/ddd/infrastructure/database/po"
)

// VideoDAO 视频表访问
type VideoDAO struct {
	db *gorm.DB
}

func NewVideoDAO(db *gorm.DB) *VideoDAO {
	return &VideoDAO{db: db}
}

func (d *VideoDAO) Create(ctx context.Context, video *po.Video) error {
	return d.db.WithContext(ctx).Model(&po.Video{}).Create(video).Error
}

func (d *VideoDAO) FindByUUID(ctx context.Context, videoUUID string) (*po.Video, error) {
	var video po.Video
	if err := d.db.WithContext(ctx).Where("video_uuid = ?", videoUUID).First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// Replace 覆盖除主键和创建时间外的所有列
func (d *VideoDAO) Replace(ctx context.Context, video *po.Video) (int64, error) {
	res := d.db.WithContext(ctx).Model(&po.Video{}).
		Where("video_uuid = ?", video.VideoUUID).
		Select("*").Omit("id", "created_at", "video_uuid", "user_uuid").
		Updates(video)
	return res.RowsAffected, res.Error
}

func (d *VideoDAO) DeleteByUUID(ctx context.Context, videoUUID string) (int64, error) {
	res := d.db.WithContext(ctx).Where("video_uuid = ?", videoUUID).Delete(&po.Video{})
	return res.RowsAffected, res.Error
}

func (d *VideoDAO) QueryByUser(ctx context.Context, userUUID string) ([]*po.Video, error) {
	var videos []*po.Video
	err := d.db.WithContext(ctx).
		Where("user_uuid = ?", userUUID).
		Order("upload_date DESC").
		Find(&videos).Error
	return videos, err
}
