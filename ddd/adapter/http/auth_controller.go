package http

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"snipx-service/ddd/application/app"
	"snipx-service/ddd/application/cqe"
	"snipx-service/pkg/errno"
	"snipx-service/pkg/logger"
	"snipx-service/pkg/middleware"
	"snipx-service/pkg/restapi"
)

const (
	oauthStateCookie = "snipx_oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// AuthController 注册、登录、第三方登录和个人资料
type AuthController struct {
	authApp app.AuthApp
	// frontendCallback receives ?token= after an OAuth login. Empty means answer with JSON.
	frontendCallback string
}

func NewAuthController(authApp app.AuthApp, frontendCallback string) *AuthController {
	return &AuthController{authApp: authApp, frontendCallback: frontendCallback}
}

func (c *AuthController) Register(ctx *gin.Context) {
	var req cqe.RegisterCqe
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	resp, err := c.authApp.Register(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

func (c *AuthController) Login(ctx *gin.Context) {
	var req cqe.LoginCqe
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	resp, err := c.authApp.Login(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// OAuthLogin 跳转到第三方授权页，state 写入 cookie
func (c *AuthController) OAuthLogin(provider string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		state := uuid.NewString()
		target, err := c.authApp.OAuthLoginURL(provider, state)
		if err != nil {
			restapi.Failed(ctx, err)
			return
		}
		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(oauthStateCookie, state, int(oauthStateTTL.Seconds()), "/", "", ctx.Request.TLS != nil, true)
		ctx.Redirect(http.StatusFound, target)
	}
}

// OAuthCallback 校验 state，换取 token 后跳回前端
func (c *AuthController) OAuthCallback(provider string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		expected, err := ctx.Cookie(oauthStateCookie)
		if err != nil || expected == "" || expected != ctx.Query("state") {
			restapi.Failed(ctx, errno.ErrOAuthState)
			return
		}
		ctx.SetCookie(oauthStateCookie, "", -1, "/", "", ctx.Request.TLS != nil, true)

		resp, err := c.authApp.OAuthCallback(ctx.Request.Context(), provider, ctx.Query("code"))
		if err != nil {
			logger.Warnf("oauth callback failed provider=%s error=%v", provider, err)
			restapi.Failed(ctx, err)
			return
		}
		if c.frontendCallback == "" {
			restapi.Success(ctx, resp)
			return
		}
		target, err := url.Parse(c.frontendCallback)
		if err != nil {
			restapi.Failed(ctx, errno.NewBizError(errno.ErrInternalServer, err))
			return
		}
		q := target.Query()
		q.Set("token", resp.Token)
		target.RawQuery = q.Encode()
		ctx.Redirect(http.StatusFound, target.String())
	}
}

func (c *AuthController) GetProfile(ctx *gin.Context) {
	resp, err := c.authApp.GetProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req cqe.UpdateProfileCqe
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, errno.NewBizError(errno.ErrInvalidParam, err))
		return
	}
	resp, err := c.authApp.UpdateProfile(ctx.Request.Context(), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}
