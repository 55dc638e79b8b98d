package repo

import (
	"context"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/vo"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	Create(ctx context.Context, user *entity.UserEntity) error
	Get(ctx context.Context, id string) (*entity.UserEntity, error)
	GetByEmail(ctx context.Context, email string) (*entity.UserEntity, error)
	GetByProvider(ctx context.Context, provider vo.AuthProvider, providerID string) (*entity.UserEntity, error)
	Update(ctx context.Context, user *entity.UserEntity) error
}
