package dao

import (
	"context"

	"gorm.io/gorm"

	"snipx-service/ddd/infrastructure/database/po"
)

// UserDAO 用户表访问
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

func (d *UserDAO) Create(ctx context.Context, user *po.User) error {
	return d.db.WithContext(ctx).Model(&po.User{}).Create(user).Error
}

func (d *UserDAO) FindByUUID(ctx context.Context, userUUID string) (*po.User, error) {
	return d.first(ctx, "user_uuid = ?", userUUID)
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (*po.User, error) {
	return d.first(ctx, "email = ?", email)
}

func (d *UserDAO) FindByProvider(ctx context.Context, provider, providerID string) (*po.User, error) {
	return d.first(ctx, "provider = ? AND provider_id = ?", provider, providerID)
}

func (d *UserDAO) first(ctx context.Context, query string, args ...interface{}) (*po.User, error) {
	var user po.User
	if err := d.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *UserDAO) Update(ctx context.Context, user *po.User) error {
	return d.db.WithContext(ctx).Model(&po.User{}).
		Where("user_uuid = ?", user.UserUUID).
		Select("*").Omit("id", "created_at", "user_uuid").
		Updates(user).Error
}
