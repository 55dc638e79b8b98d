package config

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

var globalConfig atomic.Pointer[Config]

// SetGlobalConfig 设置全局配置，必须在资源初始化之前调用
func SetGlobalConfig(cfg *Config) {
	globalConfig.Store(cfg)
}

// GetGlobalConfig 获取全局配置，未设置时返回nil
func GetGlobalConfig() *Config {
	return globalConfig.Load()
}

// ResolvePath 根据环境选择配置文件，支持CONFIG_PATH覆盖、CONFIG_ENV区分环境
func ResolvePath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	if env == "" {
		env = "dev"
	}

	switch env {
	case "prod", "production":
		return "configs/config_prod.yaml"
	case "dev", "development":
		return "configs/config.dev.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}
