package entity

import (
	"strings"
	"time"

	"snipx-service/ddd/domain/vo"
)

// UserEntity 用户实体
type UserEntity struct {
	id           string
	email        string
	passwordHash string
	firstName    string
	lastName     string
	provider     vo.AuthProvider
	providerID   string
	role         vo.UserRole
	status       vo.UserStatus
	settings     vo.UserSettings
	createdAt    time.Time
	updatedAt    time.Time
}

// NewLocalUser 创建邮箱密码注册的用户
func NewLocalUser(email, passwordHash, firstName, lastName string) *UserEntity {
	now := time.Now()
	return &UserEntity{
		email:        NormalizeEmail(email),
		passwordHash: passwordHash,
		firstName:    firstName,
		lastName:     lastName,
		provider:     vo.AuthProviderLocal,
		role:         vo.UserRoleUser,
		status:       vo.UserStatusActive,
		settings:     vo.DefaultUserSettings(),
		createdAt:    now,
		updatedAt:    now,
	}
}

// NewOAuthUser 创建第三方登录用户，没有密码
func NewOAuthUser(email, firstName, lastName string, provider vo.AuthProvider, providerID string) *UserEntity {
	u := NewLocalUser(email, "", firstName, lastName)
	u.provider = provider
	u.providerID = providerID
	return u
}

// NewUserEntityWithDetails 从持久化数据重建
func NewUserEntityWithDetails(
	id, email, passwordHash, firstName, lastName string,
	provider vo.AuthProvider, providerID string,
	role vo.UserRole, status vo.UserStatus, settings vo.UserSettings,
	createdAt, updatedAt time.Time,
) *UserEntity {
	return &UserEntity{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		firstName:    firstName,
		lastName:     lastName,
		provider:     provider,
		providerID:   providerID,
		role:         role,
		status:       status,
		settings:     settings,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// NormalizeEmail lower-cases and trims an address before lookup or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *UserEntity) ID() string { return u.id }
func (u *UserEntity) SetID(id string) { u.id = id }
func (u *UserEntity) Email() string { return u.email }
func (u *UserEntity) PasswordHash() string { return u.passwordHash }
func (u *UserEntity) FirstName() string { return u.firstName }
func (u *UserEntity) LastName() string { return u.lastName }
func (u *UserEntity) Provider() vo.AuthProvider { return u.provider }
func (u *UserEntity) ProviderID() string { return u.providerID }
func (u *UserEntity) Role() vo.UserRole { return u.role }
func (u *UserEntity) Status() vo.UserStatus { return u.status }
func (u *UserEntity) Settings() vo.UserSettings { return u.settings }
func (u *UserEntity) CreatedAt() time.Time { return u.createdAt }
func (u *UserEntity) UpdatedAt() time.Time { return u.updatedAt }

// HasPassword reports whether the account can log in with a password.
func (u *UserEntity) HasPassword() bool {
	return u.passwordHash != ""
}

func (u *UserEntity) IsAdmin() bool {
	return u.role == vo.UserRoleAdmin
}

func (u *UserEntity) IsActive() bool {
	return u.status == vo.UserStatusActive
}

// LinkProvider 把第三方身份绑定到已有账号
func (u *UserEntity) LinkProvider(provider vo.AuthProvider, providerID string) {
	if u.providerID == "" {
		u.provider = provider
		u.providerID = providerID
		u.updatedAt = time.Now()
	}
}

// UpdateProfile 更新姓名和设置，空字符串表示不修改
func (u *UserEntity) UpdateProfile(firstName, lastName string, settings *vo.UserSettings) {
	if firstName != "" {
		u.firstName = firstName
	}
	if lastName != "" {
		u.lastName = lastName
	}
	if settings != nil {
		s := *settings
		if s.DefaultLanguage == "" {
			s.DefaultLanguage = u.settings.DefaultLanguage
		}
		u.settings = s
	}
	u.updatedAt = time.Now()
}

// SetRole is used by the CLI to promote an account.
func (u *UserEntity) SetRole(role vo.UserRole) {
	u.role = role
	u.updatedAt = time.Now()
}
