package dto

import (
	"time"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/vo"
)

// UserDTO never carries the password hash.
type UserDTO struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Provider  string          `json:"provider"`
	Role      string          `json:"role"`
	Status    string          `json:"status"`
	Settings  vo.UserSettings `json:"settings"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewUserDTO(u *entity.UserEntity) *UserDTO {
	return &UserDTO{
		ID:        u.ID(),
		Email:     u.Email(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		Provider:  string(u.Provider()),
		Role:      string(u.Role()),
		Status:    string(u.Status()),
		Settings:  u.Settings(),
		CreatedAt: u.CreatedAt(),
	}
}

// AuthTokenDTO 登录结果
type AuthTokenDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *UserDTO  `json:"user"`
}
