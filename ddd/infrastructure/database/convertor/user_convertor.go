package convertor

import (
	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/database/po"
)

// UserConvertor 用户实体与PO转换
type UserConvertor struct{}

func NewUserConvertor() *UserConvertor {
	return &UserConvertor{}
}

func (c *UserConvertor) ToEntity(p *po.User) *entity.UserEntity {
	settings := p.Settings.Data
	if settings.DefaultLanguage == "" {
		settings.DefaultLanguage = vo.DefaultSubtitleLanguage
	}
	return entity.NewUserEntityWithDetails(
		p.UserUUID,
		p.Email,
		p.PasswordHash,
		p.FirstName,
		p.LastName,
		vo.AuthProvider(p.Provider),
		p.ProviderID,
		vo.UserRole(p.Role),
		vo.UserStatus(p.Status),
		settings,
		p.CreatedAt,
		p.UpdatedAt,
	)
}

func (c *UserConvertor) ToPO(e *entity.UserEntity) *po.User {
	return &po.User{
		BaseModel: po.BaseModel{
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		UserUUID:     e.ID(),
		Email:        e.Email(),
		PasswordHash: e.PasswordHash(),
		FirstName:    e.FirstName(),
		LastName:     e.LastName(),
		Provider:     string(e.Provider()),
		ProviderID:   e.ProviderID(),
		Role:         string(e.Role()),
		Status:       string(e.Status()),
		Settings:     po.NewJSONColumn(e.Settings()),
	}
}
