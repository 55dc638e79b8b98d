package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultNormalizes(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, int64(500<<20), cfg.Media.MaxUploadBytes)
	assert.Equal(t, -40.0, cfg.Processing.SilenceThresholdDB)
	assert.Equal(t, 500, cfg.Processing.MinSilenceMs)
	assert.Equal(t, 15*time.Second, cfg.Processing.DefaultDuration)
	assert.Equal(t, time.Duration(0), cfg.Processing.RunTimeout)
	assert.Equal(t, 130, cfg.Processing.SummaryMaxLen)
	assert.Equal(t, 30, cfg.Processing.SummaryMinLen)
	assert.Equal(t, "none", cfg.Storage.Mirror)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9000
database:
  driver: postgres
  host: db
media:
  upload_dir: /data/uploads
processing:
  run_timeout: 10m
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	t.Setenv("SNIPX_STORAGE_MIRROR", "MinIO")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "/data/uploads", cfg.Media.UploadDir)
	assert.Equal(t, "/data/uploads", cfg.Media.TempDir)
	assert.Equal(t, 10*time.Minute, cfg.Processing.RunTimeout)
	assert.Equal(t, "minio", cfg.Storage.Mirror)
	assert.Contains(t, cfg.Database.GetDSN(), "host=db port=5432")
}

func TestWriteTimeoutCoversRunTimeout(t *testing.T) {
	tests := []struct {
		name  string
		write time.Duration
		run   time.Duration
		want  time.Duration
	}{
		{"shorter write is raised", 15 * time.Minute, 30 * time.Minute, 31 * time.Minute},
		{"equal write is raised", 30 * time.Minute, 30 * time.Minute, 31 * time.Minute},
		{"longer write kept", 35 * time.Minute, 30 * time.Minute, 35 * time.Minute},
		{"no run timeout", 15 * time.Minute, 0, 15 * time.Minute},
		{"no write timeout", 0, 30 * time.Minute, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Server.WriteTimeout = tt.write
			cfg.Processing.RunTimeout = tt.run
			cfg.normalize()
			assert.Equal(t, tt.want, cfg.Server.WriteTimeout)
		})
	}
}

func TestDevConfigTimeoutsConsistent(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "config.dev.yaml"))
	require.NoError(t, err)
	require.Greater(t, cfg.Processing.RunTimeout, time.Duration(0))
	assert.Greater(t, cfg.Server.WriteTimeout, cfg.Processing.RunTimeout)
}

func TestMySQLDSN(t *testing.T) {
	c := DatabaseConfig{Driver: "mysql", Username: "u", Password: "p", Host: "h", Port: 3306, Database: "snipx", Charset: "utf8mb4"}
	assert.Equal(t, "u:p@tcp(h:3306)/snipx?charset=utf8mb4&parseTime=True&loc=Local", c.GetDSN())
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		path, env, want string
	}{
		{"", "", "configs/config.dev.yaml"},
		{"", "Production", "configs/config_prod.yaml"},
		{"", "staging", "configs/config.staging.yaml"},
		{"/etc/snipx.yaml", "prod", "/etc/snipx.yaml"},
	}
	for _, tt := range tests {
		t.Setenv("CONFIG_PATH", tt.path)
		t.Setenv("CONFIG_ENV", tt.env)
		assert.Equal(t, tt.want, ResolvePath(), "path=%q env=%q", tt.path, tt.env)
	}
}
