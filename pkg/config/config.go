package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server          ServerConfig          `mapstructure:"server"`
	GRPCServer      GRPCServerConfig      `mapstructure:"grpc_server"`
	Database        DatabaseConfig        `mapstructure:"database"`
	Redis           RedisConfig           `mapstructure:"redis"`
	Kafka           KafkaConfig           `mapstructure:"kafka"`
	JWT             JWTConfig             `mapstructure:"jwt"`
	OAuth           OAuthConfig           `mapstructure:"oauth"`
	Log             LogConfig             `mapstructure:"log"`
	Minio           MinioConfig           `mapstructure:"minio"`
	S3              S3Config              `mapstructure:"s3"`
	Storage         StorageConfig         `mapstructure:"storage"`
	Media           MediaConfig           `mapstructure:"media"`
	Processing      ProcessingConfig      `mapstructure:"processing"`
	Providers       ProvidersConfig       `mapstructure:"providers"`
	Janitor         JanitorConfig         `mapstructure:"janitor"`
	ServiceRegistry ServiceRegistryConfig `mapstructure:"service_registry"`
	Etcd            EtcdConfig            `mapstructure:"etcd"`
	Public          PublicConfig          `mapstructure:"public"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// GRPCServerConfig gRPC server configuration.
type GRPCServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	Charset         string        `mapstructure:"charset"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	EnableTLS    bool          `mapstructure:"enable_tls"`
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Enabled             bool              `mapstructure:"enabled"`
	BootstrapServers    []string          `mapstructure:"bootstrap_servers"`
	ClientID            string            `mapstructure:"client_id"`
	GroupID             string            `mapstructure:"group_id"`
	Topics              KafkaTopicsConfig `mapstructure:"topics"`
	CommitOnDecodeError bool              `mapstructure:"commit_on_decode_error"`
}

type KafkaTopicsConfig struct {
	ProcessRequests string `mapstructure:"process_requests"`
	VideoEvents     string `mapstructure:"video_events"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	ExpireTime time.Duration `mapstructure:"expire_time"`
}

// OAuthConfig holds third-party login providers.
type OAuthConfig struct {
	FrontendCallbackURL string              `mapstructure:"frontend_callback_url"`
	Google              OAuthProviderConfig `mapstructure:"google"`
	Facebook            OAuthProviderConfig `mapstructure:"facebook"`
}

type OAuthProviderConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
}

// Enabled reports whether the provider has credentials configured.
func (p OAuthProviderConfig) Enabled() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// MinioConfig MinIO配置
type MinioConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKey       string `mapstructure:"access_key"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
}

// S3Config AWS S3 (or compatible) configuration.
type S3Config struct {
	Region          string `mapstructure:"region"`
	Profile         string `mapstructure:"profile"`
	Bucket          string `mapstructure:"bucket"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// StorageConfig selects where finished artifacts are mirrored.
type StorageConfig struct {
	// Mirror is one of none, minio, s3.
	Mirror    string `mapstructure:"mirror"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// MediaConfig 媒体文件相关配置
type MediaConfig struct {
	UploadDir      string `mapstructure:"upload_dir"`
	TempDir        string `mapstructure:"temp_dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	FFmpegBinary   string `mapstructure:"ffmpeg_binary"`
	FFprobeBinary  string `mapstructure:"ffprobe_binary"`
	VideoCodec     string `mapstructure:"video_codec"`
	VideoPreset    string `mapstructure:"video_preset"`
}

// ProcessingConfig tunes the processing pipeline.
type ProcessingConfig struct {
	SilenceThresholdDB float64       `mapstructure:"silence_threshold_db"`
	MinSilenceMs       int           `mapstructure:"min_silence_ms"`
	DefaultDuration    time.Duration `mapstructure:"default_duration"`
	RunTimeout         time.Duration `mapstructure:"run_timeout"`
	SummaryMaxLen      int           `mapstructure:"summary_max_len"`
	SummaryMinLen      int           `mapstructure:"summary_min_len"`
}

// ProvidersConfig configures the optional ML collaborators.
type ProvidersConfig struct {
	Transcriber TranscriberConfig `mapstructure:"transcriber"`
	Summarizer  SummarizerConfig  `mapstructure:"summarizer"`
}

type TranscriberConfig struct {
	// Driver is one of none, openai.
	Driver  string        `mapstructure:"driver"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SummarizerConfig struct {
	// Driver is one of none, ollama, openai, cohere.
	Driver     string        `mapstructure:"driver"`
	Model      string        `mapstructure:"model"`
	APIKey     string        `mapstructure:"api_key"`
	OllamaHost string        `mapstructure:"ollama_host"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// JanitorConfig controls the stale temp file sweeper.
type JanitorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	MaxAge   time.Duration `mapstructure:"max_age"`
}

// ServiceRegistryConfig registration configuration.
type ServiceRegistryConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceID       string        `mapstructure:"service_id"`
	RegisterHost    string        `mapstructure:"register_host"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// EtcdConfig etcd 连接配置
type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
}

// PublicConfig 对外访问配置
type PublicConfig struct {
	StorageBase string `mapstructure:"storage_base"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	// .env 仅用于本地开发，文件不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix("SNIPX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.normalize()

	return &config, nil
}

// Default returns a configuration built only from defaults, used by tests and the CLI
// when no file is available.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	_ = v.Unmarshal(&config)
	config.normalize()
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("grpc_server.enabled", true)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.client_id", "snipx-service")
	v.SetDefault("kafka.group_id", "snipx-service-group")
	v.SetDefault("kafka.bootstrap_servers", []string{"localhost:29092"})
	v.SetDefault("kafka.topics.process_requests", "video.process.requests")
	v.SetDefault("kafka.topics.video_events", "video.events")
	v.SetDefault("kafka.commit_on_decode_error", true)
	v.SetDefault("storage.mirror", "none")
	v.SetDefault("providers.transcriber.driver", "none")
	v.SetDefault("providers.summarizer.driver", "none")
	v.SetDefault("janitor.enabled", true)
	v.SetDefault("service_registry.enabled", false)
	v.SetDefault("service_registry.service_name", "snipx-service")
}

// normalize 补全配置的默认值
func (c *Config) normalize() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.GRPCServer.Host == "" {
		c.GRPCServer.Host = "0.0.0.0"
	}
	if c.GRPCServer.Port == 0 {
		c.GRPCServer.Port = 9090
	}

	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Port == 0 {
		if c.Database.Driver == "postgres" {
			c.Database.Port = 5432
		} else {
			c.Database.Port = 3306
		}
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.ConnMaxLifetime <= 0 {
		c.Database.ConnMaxLifetime = time.Hour
	}

	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.LockTTL <= 0 {
		c.Redis.LockTTL = 2 * time.Hour
	}

	if len(c.Kafka.BootstrapServers) == 0 {
		c.Kafka.BootstrapServers = []string{"localhost:29092"}
	}
	if c.Kafka.ClientID == "" {
		c.Kafka.ClientID = "snipx-service"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "snipx-service-group"
	}
	if c.Kafka.Topics.ProcessRequests == "" {
		c.Kafka.Topics.ProcessRequests = "video.process.requests"
	}
	if c.Kafka.Topics.VideoEvents == "" {
		c.Kafka.Topics.VideoEvents = "video.events"
	}

	if c.JWT.ExpireTime <= 0 {
		c.JWT.ExpireTime = 24 * time.Hour
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "snipx-service"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}

	// 兼容不同的密钥字段
	if c.Minio.AccessKeyID == "" {
		c.Minio.AccessKeyID = c.Minio.AccessKey
	}
	if c.Minio.SecretAccessKey == "" {
		c.Minio.SecretAccessKey = c.Minio.SecretKey
	}

	c.Storage.Mirror = strings.ToLower(strings.TrimSpace(c.Storage.Mirror))
	if c.Storage.Mirror == "" {
		c.Storage.Mirror = "none"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "videos"
	}

	if c.Media.UploadDir == "" {
		c.Media.UploadDir = "uploads"
	}
	if c.Media.TempDir == "" {
		c.Media.TempDir = c.Media.UploadDir
	}
	if c.Media.MaxUploadBytes <= 0 {
		c.Media.MaxUploadBytes = 500 << 20
	}
	if c.Media.FFmpegBinary == "" {
		c.Media.FFmpegBinary = "ffmpeg"
	}
	if c.Media.FFprobeBinary == "" {
		c.Media.FFprobeBinary = "ffprobe"
	}
	if c.Media.VideoCodec == "" {
		c.Media.VideoCodec = "libx264"
	}
	if c.Media.VideoPreset == "" {
		c.Media.VideoPreset = "medium"
	}

	if c.Processing.SilenceThresholdDB == 0 {
		c.Processing.SilenceThresholdDB = -40
	}
	if c.Processing.MinSilenceMs <= 0 {
		c.Processing.MinSilenceMs = 500
	}
	if c.Processing.DefaultDuration <= 0 {
		c.Processing.DefaultDuration = 15 * time.Second
	}
	if c.Processing.RunTimeout < 0 {
		c.Processing.RunTimeout = 0
	}
	// 同步 /process 请求要等整次运行结束，写超时不能短于运行超时
	if rt := c.Processing.RunTimeout; rt > 0 && c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= rt {
		c.Server.WriteTimeout = rt + time.Minute
	}
	if c.Processing.SummaryMaxLen <= 0 {
		c.Processing.SummaryMaxLen = 130
	}
	if c.Processing.SummaryMinLen <= 0 {
		c.Processing.SummaryMinLen = 30
	}

	if c.Providers.Transcriber.Driver == "" {
		c.Providers.Transcriber.Driver = "none"
	}
	if c.Providers.Transcriber.Model == "" {
		c.Providers.Transcriber.Model = "whisper-1"
	}
	if c.Providers.Transcriber.Timeout <= 0 {
		c.Providers.Transcriber.Timeout = 5 * time.Minute
	}
	if c.Providers.Summarizer.Driver == "" {
		c.Providers.Summarizer.Driver = "none"
	}
	if c.Providers.Summarizer.OllamaHost == "" {
		c.Providers.Summarizer.OllamaHost = "http://localhost:11434"
	}
	if c.Providers.Summarizer.Timeout <= 0 {
		c.Providers.Summarizer.Timeout = 2 * time.Minute
	}

	if c.Janitor.Schedule == "" {
		c.Janitor.Schedule = "@every 30m"
	}
	if c.Janitor.MaxAge <= 0 {
		c.Janitor.MaxAge = 6 * time.Hour
	}

	if c.ServiceRegistry.ServiceName == "" {
		c.ServiceRegistry.ServiceName = "snipx-service"
	}
	if c.ServiceRegistry.TTL == 0 {
		c.ServiceRegistry.TTL = 30 * time.Second
	}
	if c.ServiceRegistry.RefreshInterval == 0 {
		c.ServiceRegistry.RefreshInterval = 10 * time.Second
	}
	if len(c.Etcd.Endpoints) == 0 {
		c.Etcd.Endpoints = []string{"localhost:2379"}
	}
	if c.Etcd.DialTimeout <= 0 {
		c.Etcd.DialTimeout = 5 * time.Second
	}
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// GetRedisAddr 获取Redis地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetHTTPAddr returns the listen address of the HTTP server.
func (c *ServerConfig) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetGRPCAddr returns the listen address of the gRPC server.
func (c *GRPCServerConfig) GetGRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
