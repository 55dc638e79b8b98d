package cqe

import (
	"strings"

	"snipx-service/ddd/domain/vo"
	"snipx-service/pkg/errno"
)

const MinPasswordLength = 8

// RegisterCqe 注册请求
type RegisterCqe struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (c *RegisterCqe) Validate() error {
	if strings.TrimSpace(c.Email) == "" || !strings.Contains(c.Email, "@") {
		return errno.ErrEmailRequired
	}
	if len(c.Password) < MinPasswordLength {
		return errno.ErrPasswordTooShort
	}
	return nil
}

// LoginCqe 登录请求
type LoginCqe struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *LoginCqe) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return errno.ErrMissingParam
	}
	return nil
}

// UpdateProfileCqe 更新资料；nil 字段保持不变
type UpdateProfileCqe struct {
	FirstName *string          `json:"first_name"`
	LastName  *string          `json:"last_name"`
	Settings  *vo.UserSettings `json:"settings"`
}
