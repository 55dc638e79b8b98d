package po

import "snipx-service/ddd/domain/vo"

// User 用户持久化对象
type User struct {
	BaseModel
	UserUUID     string                      `gorm:"column:user_uuid;type:varchar(36);uniqueIndex" json:"user_uuid"`
	Email        string                      `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	PasswordHash string                      `gorm:"column:password_hash;type:varchar(255)" json:"-"`
	FirstName    string                      `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName     string                      `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	Provider     string                      `gorm:"column:provider;type:varchar(20);index:idx_user_provider" json:"provider"`
	ProviderID   string                      `gorm:"column:provider_id;type:varchar(255);index:idx_user_provider" json:"provider_id"`
	Role         string                      `gorm:"column:role;type:varchar(20)" json:"role"`
	Status       string                      `gorm:"column:status;type:varchar(20)" json:"status"`
	Settings     JSONColumn[vo.UserSettings] `gorm:"column:settings;type:text" json:"settings"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
