package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"

	"snipx-service/ddd/adapter/component"
	grpcadapter "snipx-service/ddd/adapter/grpc"
	httpadapter "snipx-service/ddd/adapter/http"
	"snipx-service/ddd/application/app"
	"snipx-service/internal/resource"
	"snipx-service/pkg/config"
	"snipx-service/pkg/logger"
	"snipx-service/pkg/manager"
	"snipx-service/pkg/registry"
	"snipx-service/pkg/task"
)

const serviceName = "snipx-service"

func Run() {
	// 先使用标准输出确保能看到日志
	fmt.Println("[STARTUP] Starting snipx service...")

	cfgPath := config.ResolvePath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	// 设置全局配置（必须在资源管理器初始化之前）
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	logger.Debug("Logger initialized", map[string]interface{}{
		"level":  cfg.Log.Level,
		"format": cfg.Log.Format,
		"output": cfg.Log.Output,
	})
	logger.Infof("Snipx service starting env=%s", os.Getenv("CONFIG_ENV"))

	// ffmpeg 缺失时直接在启动阶段失败
	for _, bin := range []string{cfg.Media.FFmpegBinary, cfg.Media.FFprobeBinary} {
		if _, err := exec.LookPath(bin); err != nil {
			logger.Fatal(fmt.Sprintf("media binary not found, install it or set media.ffmpeg_binary/ffprobe_binary binary=%s error=%s", bin, err.Error()))
		}
	}
	for _, dir := range []string{cfg.Media.UploadDir, cfg.Media.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal(fmt.Sprintf("create media dir failed dir=%s error=%v", dir, err))
		}
	}

	logger.Infof("Initializing resource manager...")
	manager.MustInitResources()
	defer manager.CloseResources()
	logger.Infof("Resource manager initialized")

	videoApp := app.DefaultVideoApp()
	deps := &manager.Dependencies{
		DB:              resource.DefaultDatabaseResource().MainDB(),
		Config:          cfg,
		VideoAppService: videoApp,
	}

	logger.Infof("Initializing components...")
	manager.MustInitComponents(deps)
	logger.Infof("All components initialized")

	// gRPC 只暴露健康检查
	var grpcServer *grpc.Server
	grpcAddr := cfg.GRPCServer.GetGRPCAddr()
	if cfg.GRPCServer.Enabled {
		grpcServer = grpc.NewServer()
		health := grpcadapter.NewHealthReporter(grpcServer, 15*time.Second, healthPingers(deps))
		task.Register(health)

		grpcListener, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			logger.Fatal(fmt.Sprintf("Failed to listen on gRPC port address=%s error=%v", grpcAddr, err))
		}
		go func() {
			logger.Infof("gRPC server started address=%s service=%s", grpcAddr, serviceName)
			if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				logger.Errorf("gRPC server encountered an error error=%v", err)
			}
		}()
	}

	if cfg.Janitor.Enabled {
		task.Register(component.NewTempJanitor(cfg.Media, cfg.Janitor))
	}
	if err := task.StartAll(context.Background()); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to start background tasks error=%v", err))
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	(&httpadapter.Router{}).SetupMiddleware(router)

	logger.Infof("Registering routes...")
	manager.RegisterAllRoutes(router)
	logger.Infof("Routes registered")

	httpAddr := cfg.Server.GetHTTPAddr()
	server := &http.Server{
		Addr:         httpAddr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()
	logger.Infof("HTTP server started address=%s service=%s api_url=%s", httpAddr, serviceName, fmt.Sprintf("http://%s/api/v1", httpAddr))

	serviceRegistry := registerService(cfg)

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	if serviceRegistry != nil {
		if err := serviceRegistry.Deregister(); err != nil {
			logger.Warnf("Service deregistration failed error=%v", err)
		}
	}

	if err := task.StopAll(); err != nil {
		logger.Warnf("Background tasks stopped with errors error=%v", err)
	}
	if grpcServer != nil {
		logger.Infof("Stopping gRPC server... address=%s", grpcAddr)
		grpcServer.GracefulStop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to close error=%v", err)
	}

	logger.Infof("Shutting down components...")
	manager.Shutdown()
	logger.Infof("Server exited safely")

	logService.Close()
	fmt.Println("[SHUTDOWN] Snipx service exited safely")
}

func healthPingers(deps *manager.Dependencies) map[string]grpcadapter.Pinger {
	pingers := map[string]grpcadapter.Pinger{}
	if sqlDB, err := deps.DB.DB(); err == nil {
		pingers["database"] = sqlDB
	}
	if r := resource.DefaultRedisResource(); r.Enabled() {
		pingers["redis"] = grpcadapter.PingFunc(func(ctx context.Context) error {
			return r.Client().Raw().Ping(ctx).Err()
		})
	}
	return pingers
}

// registerService 注册到 etcd，失败只记录警告
func registerService(cfg *config.Config) *registry.ServiceRegistry {
	if !cfg.ServiceRegistry.Enabled {
		return nil
	}
	host := cfg.ServiceRegistry.RegisterHost
	if host == "" {
		host, _ = os.Hostname()
	}
	addr := net.JoinHostPort(host, fmt.Sprint(cfg.Server.Port))
	r, err := registry.NewServiceRegistry(cfg.Etcd, cfg.ServiceRegistry, addr)
	if err != nil {
		logger.Warnf("Service registry unavailable error=%v", err)
		return nil
	}
	if err := r.Register(); err != nil {
		logger.Warnf("Service registration failed key=%s error=%v", r.Key(), err)
		return nil
	}
	logger.Infof("Service registered key=%s addr=%s", r.Key(), addr)
	return r
}
