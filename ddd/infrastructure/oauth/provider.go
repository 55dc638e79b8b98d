package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"snipx-service/ddd/domain/gateway"
	"snipx-service/ddd/domain/vo"
	"snipx-service/pkg/config"
)

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,email,first_name,last_name"
)

var _ gateway.IdentityProvider = (*Provider)(nil)

// Provider runs the authorization code flow and reads the user's profile.
type Provider struct {
	name        string
	conf        *oauth2.Config
	userInfoURL string
	decode      func([]byte) (*gateway.ExternalIdentity, error)
}

func NewGoogle(cfg config.OAuthProviderConfig) *Provider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	return &Provider{
		name:        string(vo.AuthProviderGoogle),
		conf:        oauthConfig(cfg, google.Endpoint, scopes),
		userInfoURL: googleUserInfoURL,
		decode:      decodeGoogle,
	}
}

func NewFacebook(cfg config.OAuthProviderConfig) *Provider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"email", "public_profile"}
	}
	return &Provider{
		name:        string(vo.AuthProviderFacebook),
		conf:        oauthConfig(cfg, facebook.Endpoint, scopes),
		userInfoURL: facebookUserInfoURL,
		decode:      decodeFacebook,
	}
}

func oauthConfig(cfg config.OAuthProviderConfig, endpoint oauth2.Endpoint, scopes []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
}

// FromConfig returns the providers that have credentials configured.
func FromConfig(cfg config.OAuthConfig) map[string]gateway.IdentityProvider {
	out := make(map[string]gateway.IdentityProvider)
	if cfg.Google.Enabled() {
		out[string(vo.AuthProviderGoogle)] = NewGoogle(cfg.Google)
	}
	if cfg.Facebook.Enabled() {
		out[string(vo.AuthProviderFacebook)] = NewFacebook(cfg.Facebook)
	}
	return out
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *Provider) Exchange(ctx context.Context, code string) (*gateway.ExternalIdentity, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange: %w", p.name, err)
	}
	resp, err := p.conf.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%s userinfo: %w", p.name, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s userinfo: %w", p.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s userinfo: status %d", p.name, resp.StatusCode)
	}
	id, err := p.decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s userinfo: %w", p.name, err)
	}
	id.Provider = p.name
	if id.ProviderID == "" || id.Email == "" {
		return nil, fmt.Errorf("%s userinfo: %w", p.name, errors.New("profile has no id or email"))
	}
	id.Email = strings.ToLower(strings.TrimSpace(id.Email))
	return id, nil
}

func decodeGoogle(body []byte) (*gateway.ExternalIdentity, error) {
	var u struct {
		ID         string `json:"id"`
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, err
	}
	return &gateway.ExternalIdentity{ProviderID: u.ID, Email: u.Email, FirstName: u.GivenName, LastName: u.FamilyName}, nil
}

func decodeFacebook(body []byte) (*gateway.ExternalIdentity, error) {
	var u struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, err
	}
	return &gateway.ExternalIdentity{ProviderID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}, nil
}
