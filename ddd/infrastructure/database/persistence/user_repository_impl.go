package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/repo"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/database/convertor"
	"snipx-service/ddd/infrastructure/database/dao"
)

type userRepositoryImpl struct {
	userDao   *dao.UserDAO
	convertor *convertor.UserConvertor
}

func NewUserRepository(db *gorm.DB) repo.UserRepository {
	return &userRepositoryImpl{
		userDao:   dao.NewUserDAO(db),
		convertor: convertor.NewUserConvertor(),
	}
}

func (r *userRepositoryImpl) Create(ctx context.Context, user *entity.UserEntity) error {
	if user.ID() == "" {
		user.SetID(uuid.New().String())
	}
	return r.userDao.Create(ctx, r.convertor.ToPO(user))
}

func (r *userRepositoryImpl) Get(ctx context.Context, id string) (*entity.UserEntity, error) {
	p, err := r.userDao.FindByUUID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return r.convertor.ToEntity(p), nil
}

func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (*entity.UserEntity, error) {
	p, err := r.userDao.FindByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, translate(err)
	}
	return r.convertor.ToEntity(p), nil
}

func (r *userRepositoryImpl) GetByProvider(ctx context.Context, provider vo.AuthProvider, providerID string) (*entity.UserEntity, error) {
	p, err := r.userDao.FindByProvider(ctx, string(provider), providerID)
	if err != nil {
		return nil, translate(err)
	}
	return r.convertor.ToEntity(p), nil
}

func (r *userRepositoryImpl) Update(ctx context.Context, user *entity.UserEntity) error {
	return r.userDao.Update(ctx, r.convertor.ToPO(user))
}
