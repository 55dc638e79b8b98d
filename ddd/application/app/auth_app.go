package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"snipx-service/ddd/application/cqe"
	"snipx-service/ddd/application/dto"
	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/gateway"
	"snipx-service/ddd/domain/repo"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/database/persistence"
	"snipx-service/ddd/infrastructure/oauth"
	"snipx-service/internal/resource"
	"snipx-service/pkg/assert"
	"snipx-service/pkg/auth"
	"snipx-service/pkg/errno"
	"snipx-service/pkg/logger"
)

var (
	singleAuthApp AuthApp
	onceAuthApp   sync.Once
)

type AuthApp interface {
	Register(ctx context.Context, req *cqe.RegisterCqe) (*dto.UserDTO, error)
	Login(ctx context.Context, req *cqe.LoginCqe) (*dto.AuthTokenDTO, error)
	// OAuthLoginURL 返回第三方授权地址
	OAuthLoginURL(providerName, state string) (string, error)
	// OAuthCallback 用授权码换取用户信息，找到或创建用户后签发 token
	OAuthCallback(ctx context.Context, providerName, code string) (*dto.AuthTokenDTO, error)
	GetProfile(ctx context.Context, userID string) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, userID string, req *cqe.UpdateProfileCqe) (*dto.UserDTO, error)
}

// TokenIssuer is satisfied by *auth.TokenManager.
type TokenIssuer interface {
	Issue(userID, email, role string) (string, time.Time, error)
}

type authAppImpl struct {
	users     repo.UserRepository
	tokens    TokenIssuer
	providers map[string]gateway.IdentityProvider
}

func DefaultAuthApp() AuthApp {
	assert.NotCircular()
	onceAuthApp.Do(func() {
		cfg := mustConfig()
		tokens, err := auth.NewTokenManager(cfg.JWT)
		if err != nil {
			panic("init token manager: " + err.Error())
		}
		singleAuthApp = NewAuthAppWith(
			persistence.NewUserRepository(resource.DefaultDatabaseResource().MainDB()),
			tokens,
			oauth.FromConfig(cfg.OAuth),
		)
	})
	assert.NotNil(singleAuthApp)
	return singleAuthApp
}

func NewAuthAppWith(users repo.UserRepository, tokens TokenIssuer, providers map[string]gateway.IdentityProvider) AuthApp {
	if providers == nil {
		providers = map[string]gateway.IdentityProvider{}
	}
	return &authAppImpl{users: users, tokens: tokens, providers: providers}
}

func (a *authAppImpl) Register(ctx context.Context, req *cqe.RegisterCqe) (*dto.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	_, err := a.users.GetByEmail(ctx, entity.NormalizeEmail(req.Email))
	if err == nil {
		return nil, errno.ErrEmailExists
	}
	if !errors.Is(err, repo.ErrRecordNotFound) {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}
	user := entity.NewLocalUser(req.Email, hash, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName))
	if err := a.users.Create(ctx, user); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	logger.Infof("User registered user_id=%s", user.ID())
	return dto.NewUserDTO(user), nil
}

func (a *authAppImpl) Login(ctx context.Context, req *cqe.LoginCqe) (*dto.AuthTokenDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := a.users.GetByEmail(ctx, entity.NormalizeEmail(req.Email))
	if errors.Is(err, repo.ErrRecordNotFound) {
		return nil, errno.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	// OAuth 用户没有密码
	if !user.HasPassword() || !auth.CheckPassword(user.PasswordHash(), req.Password) {
		return nil, errno.ErrInvalidCredentials
	}
	return a.issue(user)
}

func (a *authAppImpl) OAuthLoginURL(providerName, state string) (string, error) {
	p, ok := a.providers[providerName]
	if !ok {
		return "", errno.ErrOAuthProvider
	}
	return p.AuthCodeURL(state), nil
}

func (a *authAppImpl) OAuthCallback(ctx context.Context, providerName, code string) (*dto.AuthTokenDTO, error) {
	p, ok := a.providers[providerName]
	if !ok {
		return nil, errno.ErrOAuthProvider
	}
	if code == "" {
		return nil, errno.ErrMissingParam
	}
	identity, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrOAuthExchange, err)
	}
	user, err := a.findOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}
	return a.issue(user)
}

func (a *authAppImpl) findOrCreate(ctx context.Context, id *gateway.ExternalIdentity) (*entity.UserEntity, error) {
	provider := vo.AuthProvider(id.Provider)
	user, err := a.users.GetByProvider(ctx, provider, id.ProviderID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repo.ErrRecordNotFound) {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}

	// 同邮箱的已有账号直接关联
	user, err = a.users.GetByEmail(ctx, id.Email)
	switch {
	case err == nil:
		user.LinkProvider(provider, id.ProviderID)
		if err := a.users.Update(ctx, user); err != nil {
			return nil, errno.NewBizError(errno.ErrDatabase, err)
		}
		logger.Infof("OAuth identity linked user_id=%s provider=%s", user.ID(), provider)
		return user, nil
	case errors.Is(err, repo.ErrRecordNotFound):
		user = entity.NewOAuthUser(id.Email, id.FirstName, id.LastName, provider, id.ProviderID)
		if err := a.users.Create(ctx, user); err != nil {
			return nil, errno.NewBizError(errno.ErrDatabase, err)
		}
		logger.Infof("OAuth user created user_id=%s provider=%s", user.ID(), provider)
		return user, nil
	default:
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
}

func (a *authAppImpl) issue(user *entity.UserEntity) (*dto.AuthTokenDTO, error) {
	if !user.IsActive() {
		return nil, errno.ErrUserSuspended
	}
	token, exp, err := a.tokens.Issue(user.ID(), user.Email(), string(user.Role()))
	if err != nil {
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}
	return &dto.AuthTokenDTO{Token: token, ExpiresAt: exp, User: dto.NewUserDTO(user)}, nil
}

func (a *authAppImpl) GetProfile(ctx context.Context, userID string) (*dto.UserDTO, error) {
	user, err := a.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewUserDTO(user), nil
}

func (a *authAppImpl) UpdateProfile(ctx context.Context, userID string, req *cqe.UpdateProfileCqe) (*dto.UserDTO, error) {
	user, err := a.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	first, last := user.FirstName(), user.LastName()
	if req.FirstName != nil {
		first = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		last = strings.TrimSpace(*req.LastName)
	}
	user.UpdateProfile(first, last, req.Settings)
	if err := a.users.Update(ctx, user); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewUserDTO(user), nil
}

func (a *authAppImpl) loadUser(ctx context.Context, userID string) (*entity.UserEntity, error) {
	user, err := a.users.Get(ctx, userID)
	if errors.Is(err, repo.ErrRecordNotFound) {
		return nil, errno.ErrUserNotFound
	}
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return user, nil
}
