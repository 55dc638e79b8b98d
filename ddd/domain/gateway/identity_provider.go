package gateway

import "context"

// ExternalIdentity is the profile an OAuth provider returns.
type ExternalIdentity struct {
	Provider   string
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
}

// IdentityProvider 第三方登录网关
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*ExternalIdentity, error)
}
