package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"snipx-service/ddd/application/app"
	"snipx-service/pkg/auth"
	"snipx-service/pkg/config"
	"snipx-service/pkg/manager"
	"snipx-service/pkg/middleware"
)

const serviceName = "snipx-service"

func init() {
	manager.RegisterRoutePlugin(&APIRoutePlugin{})
}

// APIRoutePlugin 注册 /api/v1 下全部路由
type APIRoutePlugin struct{}

func (p *APIRoutePlugin) Name() string {
	return "apiRoutePlugin"
}

func (p *APIRoutePlugin) Register(engine *gin.Engine) {
	cfg := config.GetGlobalConfig()
	tokens, err := auth.NewTokenManager(cfg.JWT)
	if err != nil {
		panic("init token manager: " + err.Error())
	}
	NewRouter(app.DefaultVideoApp(), app.DefaultAuthApp(), app.DefaultTicketApp(), tokens, cfg.OAuth.FrontendCallbackURL).
		SetupRoutes(engine)
}

// Router 路由配置
type Router struct {
	videoApp         app.VideoApp
	authApp          app.AuthApp
	ticketApp        app.TicketApp
	tokens           middleware.TokenParser
	frontendCallback string
}

// NewRouter 创建路由配置
func NewRouter(videoApp app.VideoApp, authApp app.AuthApp, ticketApp app.TicketApp, tokens middleware.TokenParser, frontendCallback string) *Router {
	return &Router{
		videoApp:         videoApp,
		authApp:          authApp,
		ticketApp:        ticketApp,
		tokens:           tokens,
		frontendCallback: frontendCallback,
	}
}

// SetupMiddleware 设置全局中间件
func (r *Router) SetupMiddleware(engine *gin.Engine) {
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestContextMiddleware())
	engine.Use(middleware.AccessLog())
	engine.Use(middleware.CORS())
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes(engine *gin.Engine) {
	videoController := NewVideoController(r.videoApp)
	authController := NewAuthController(r.authApp, r.frontendCallback)
	ticketController := NewTicketController(r.ticketApp)

	requireAuth := middleware.JWTAuth(r.tokens)

	v1 := engine.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authController.Register)
			authGroup.POST("/login", authController.Login)
			for _, provider := range []string{"google", "facebook"} {
				authGroup.GET("/"+provider+"/login", authController.OAuthLogin(provider))
				authGroup.GET("/"+provider+"/callback", authController.OAuthCallback(provider))
			}
		}

		protected := v1.Group("", requireAuth)
		{
			protected.GET("/profile", authController.GetProfile)
			protected.PUT("/profile", authController.UpdateProfile)

			protected.POST("/upload", videoController.Upload)
			protected.GET("/videos", videoController.ListVideos)
			protected.GET("/videos/:video_id", videoController.GetVideo)
			protected.DELETE("/videos/:video_id", videoController.DeleteVideo)
			protected.POST("/videos/:video_id/process", videoController.Process)
			protected.GET("/videos/:video_id/subtitles", videoController.GetSubtitles)
			protected.GET("/videos/:video_id/subtitles/download", videoController.DownloadSubtitles)

			protected.POST("/support/tickets", ticketController.CreateTicket)
			protected.GET("/support/tickets", ticketController.ListMyTickets)
			protected.GET("/support/tickets/:ticket_id", ticketController.GetTicket)
			protected.PUT("/support/tickets/:ticket_id/status", ticketController.UpdateStatus)
			protected.POST("/support/tickets/:ticket_id/responses", ticketController.AddResponse)
		}

		adminGroup := v1.Group("/admin", requireAuth, middleware.RequireAdmin())
		{
			adminGroup.GET("/tickets", ticketController.AdminListTickets)
			adminGroup.GET("/tickets/stats", ticketController.AdminStats)
		}
	}

	// 健康检查路由
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
