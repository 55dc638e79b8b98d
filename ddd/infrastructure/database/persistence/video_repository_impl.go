package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/repo"
	"snipx-service/ddd/infrastructure/database/convertor"
	"snipx-service/ddd/infrastructure/database/dao"
)

type videoRepositoryImpl struct {
	videoDao  *dao.VideoDAO
	convertor *convertor.VideoConvertor
}

func NewVideoRepository(db *gorm.DB) repo.VideoRepository {
	return &videoRepositoryImpl{
		videoDao:  dao.NewVideoDAO(db),
		convertor: convertor.NewVideoConvertor(),
	}
}

func (r *videoRepositoryImpl) Create(ctx context.Context, video *entity.VideoEntity) error {
	if video.ID() == "" {
		video.SetID(uuid.New().String())
	}
	return r.videoDao.Create(ctx, r.convertor.ToPO(video))
}

func (r *videoRepositoryImpl) Get(ctx context.Context, id string) (*entity.VideoEntity, error) {
	p, err := r.videoDao.FindByUUID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return r.convertor.ToEntity(p), nil
}

func (r *videoRepositoryImpl) Replace(ctx context.Context, video *entity.VideoEntity) error {
	affected, err := r.videoDao.Replace(ctx, r.convertor.ToPO(video))
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("replace video %s: %w", video.ID(), repo.ErrRecordNotFound)
	}
	return nil
}

func (r *videoRepositoryImpl) Delete(ctx context.Context, id string) error {
	affected, err := r.videoDao.DeleteByUUID(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("delete video %s: %w", id, repo.ErrRecordNotFound)
	}
	return nil
}

func (r *videoRepositoryImpl) ListByOwner(ctx context.Context, userID string) ([]*entity.VideoEntity, error) {
	list, err := r.videoDao.QueryByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(list), nil
}
