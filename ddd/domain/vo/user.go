package vo

// UserRole 用户角色
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserStatus 账号状态
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// AuthProvider is where the identity was first established.
type AuthProvider string

const (
	AuthProviderLocal    AuthProvider = "local"
	AuthProviderGoogle   AuthProvider = "google"
	AuthProviderFacebook AuthProvider = "facebook"
)

// UserSettings are the per-user defaults the editor starts from.
type UserSettings struct {
	DefaultLanguage    string `json:"default_language"`
	AutoEnhanceAudio   bool   `json:"auto_enhance_audio"`
	GenerateThumbnails bool   `json:"generate_thumbnails"`
}

// DefaultUserSettings returns the settings of a fresh account.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		DefaultLanguage:    DefaultSubtitleLanguage,
		AutoEnhanceAudio:   false,
		GenerateThumbnails: true,
	}
}
