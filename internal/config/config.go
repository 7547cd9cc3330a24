package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type HTTPTimeoutsConfig struct {
	Read     time.Duration
	Idle     time.Duration
	Write    time.Duration
	Shutdown time.Duration // how long we give the shutdown process to gracefully terminate
}

type HTTPConfig struct {
	Port     int
	Timeouts HTTPTimeoutsConfig
}

type RateLimiterConfig struct {
	RPS   int
	Burst int
}

type LoggerConfig struct {
	Level slog.Level
}

type AppConfig struct {
	Name        string
	Environment string // 'dev' | 'prod'
	PagesDir    string // markdown sources for the public marketing pages
}

type DBConfig struct {
	Path           string
	MigrationsPath string
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

type StorageConfig struct {
	// Backend selects where uploaded media lives: 'local' | 's3'
	Backend   string
	LocalPath string
	S3        S3Config
}

type MediaConfig struct {
	// Prefix is prepended to every generated asset key
	Prefix string
	// DefaultKey is served for records created without an upload
	DefaultKey    string
	MaxUploadSize int64
}

type TelemetryConfig struct {
	EnableTelemetry bool
	OtelEndpoint    string
}

type AuthConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
}

type ProxyConfig struct {
	// Trusted says requests arrive via a proxy whose client-IP headers
	// can be believed
	Trusted bool
}

type Config struct {
	App     AppConfig
	DB      DBConfig
	Storage StorageConfig
	Media   MediaConfig
	HTTP    HTTPConfig
	Limiter RateLimiterConfig
	Logger  LoggerConfig
	Metrics TelemetryConfig
	Auth    AuthConfig
	Proxy   ProxyConfig
}

func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "RBY Distribution",
			Environment: "prod",
			PagesDir:    "./pages",
		},
		DB: DBConfig{
			Path:           "rby.db",
			MigrationsPath: "./migrations",
		},
		Storage: StorageConfig{
			Backend:   "local",
			LocalPath: "./uploads",
			S3: S3Config{
				Region: "auto",
			},
		},
		Media: MediaConfig{
			Prefix:        "assets",
			DefaultKey:    "assets/placeholder.png",
			MaxUploadSize: 16 << 20,
		},
		HTTP: HTTPConfig{
			Port: 3000,
			Timeouts: HTTPTimeoutsConfig{
				Read:     5 * time.Second,
				Write:    30 * time.Second, // uploads are slower than page loads
				Idle:     10 * time.Minute,
				Shutdown: 10 * time.Second,
			},
		},
		Limiter: RateLimiterConfig{
			RPS:   20,
			Burst: 50,
		},
		Logger: LoggerConfig{
			Level: slog.LevelInfo,
		},
		Metrics: TelemetryConfig{
			OtelEndpoint: "localhost:4318",
		},
		Auth: AuthConfig{
			SessionSecret: "very-secret-key-change-me-in-production",
			SessionTTL:    12 * time.Hour,
		},
	}
}

func LoadWithDefaults() *Config {
	defaults := DefaultConfig()
	return &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", defaults.App.Name),
			Environment: getEnv("APP_ENV", defaults.App.Environment),
			PagesDir:    getEnv("APP_PAGES_DIR", defaults.App.PagesDir),
		},
		DB: DBConfig{
			Path:           getEnv("DB_PATH", defaults.DB.Path),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", defaults.DB.MigrationsPath),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", defaults.Storage.Backend),
			LocalPath: getEnv("STORAGE_LOCAL_PATH", defaults.Storage.LocalPath),
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", defaults.Storage.S3.Endpoint),
				Region:    getEnv("S3_REGION", defaults.Storage.S3.Region),
				AccessKey: getEnv("S3_ACCESS_KEY", defaults.Storage.S3.AccessKey),
				SecretKey: getEnv("S3_SECRET_KEY", defaults.Storage.S3.SecretKey),
				Bucket:    getEnv("S3_BUCKET", defaults.Storage.S3.Bucket),
			},
		},
		Media: MediaConfig{
			Prefix:        getEnv("MEDIA_PREFIX", defaults.Media.Prefix),
			DefaultKey:    getEnv("MEDIA_DEFAULT_KEY", defaults.Media.DefaultKey),
			MaxUploadSize: getEnvAsInt64("MEDIA_MAX_UPLOAD_SIZE", defaults.Media.MaxUploadSize),
		},
		HTTP: HTTPConfig{
			Port: getEnvAsInt("HTTP_PORT", defaults.HTTP.Port),
			Timeouts: HTTPTimeoutsConfig{
				Read:     getEnvAsDuration("HTTP_READ_TIMEOUT", defaults.HTTP.Timeouts.Read),
				Write:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", defaults.HTTP.Timeouts.Write),
				Idle:     getEnvAsDuration("HTTP_IDLE_TIMEOUT", defaults.HTTP.Timeouts.Idle),
				Shutdown: getEnvAsDuration("HTTP_SHUTDOWN_DELAY", defaults.HTTP.Timeouts.Shutdown),
			},
		},
		Limiter: RateLimiterConfig{
			RPS:   getEnvAsInt("LIMITER_RPS", defaults.Limiter.RPS),
			Burst: getEnvAsInt("LIMITER_BURST", defaults.Limiter.Burst),
		},
		Logger: LoggerConfig{
			Level: getEnvAsLogLevel("LOGGER_LEVEL", defaults.Logger.Level),
		},
		Metrics: TelemetryConfig{
			EnableTelemetry: getEnvAsBool("ENABLE_TELEMETRY", false),
			OtelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", defaults.Metrics.OtelEndpoint),
		},
		Auth: AuthConfig{
			SessionSecret: getEnv("SESSION_SECRET", defaults.Auth.SessionSecret),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", defaults.Auth.SessionTTL),
		},
		Proxy: ProxyConfig{
			Trusted: getEnvAsBool("TRUSTED_PROXY", defaults.Proxy.Trusted),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsLogLevel(key string, fallback slog.Level) slog.Level {
	valueStr, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	switch strings.ToLower(valueStr) {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("APP_NAME must not be empty")
	}
	if s := strings.ToLower(c.App.Environment); s != "dev" && s != "prod" {
		return fmt.Errorf(`APP_ENV must be "dev" or "prod"`)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if c.DB.MigrationsPath == "" {
		return fmt.Errorf("DB_MIGRATIONS_PATH must not be empty")
	}
	switch c.Storage.Backend {
	case "local":
		if c.Storage.LocalPath == "" {
			return fmt.Errorf("STORAGE_LOCAL_PATH must not be empty for the local backend")
		}
	case "s3":
		if c.Storage.S3.Endpoint == "" || c.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3_ENDPOINT and S3_BUCKET must be set for the s3 backend")
		}
	default:
		return fmt.Errorf(`STORAGE_BACKEND must be "local" or "s3", got %q`, c.Storage.Backend)
	}
	if c.Media.DefaultKey == "" {
		return fmt.Errorf("MEDIA_DEFAULT_KEY must not be empty")
	}
	if c.Media.MaxUploadSize <= 0 {
		return fmt.Errorf("MEDIA_MAX_UPLOAD_SIZE must be positive, got %d", c.Media.MaxUploadSize)
	}
	// stay away from well-known ports
	if p := c.HTTP.Port; p < 1024 || p > 65535 {
		return fmt.Errorf("HTTP_PORT must be a positive int between 1024 and 65535, got %d", p)
	}
	if c.HTTP.Timeouts.Read <= 0 {
		return fmt.Errorf("HTTP_READ_TIMEOUT must be positive (e.g., 5s), got %s", c.HTTP.Timeouts.Read)
	}
	if c.HTTP.Timeouts.Write <= 0 {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT must be positive (e.g., 30s), got %s", c.HTTP.Timeouts.Write)
	}
	if c.HTTP.Timeouts.Idle <= 0 {
		return fmt.Errorf("HTTP_IDLE_TIMEOUT must be positive (e.g., 2m), got %s", c.HTTP.Timeouts.Idle)
	}
	if c.HTTP.Timeouts.Shutdown <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_DELAY must be positive (e.g., 10s), got %s", c.HTTP.Timeouts.Shutdown)
	}
	if c.Limiter.RPS <= 0 {
		return fmt.Errorf("LIMITER_RPS must be positive, got %d", c.Limiter.RPS)
	}
	if c.Limiter.Burst <= 0 {
		return fmt.Errorf("LIMITER_BURST must be positive, got %d", c.Limiter.Burst)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Auth.SessionTTL)
	}
	if c.App.Environment == "prod" {
		if c.Auth.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET must not be empty in production")
		}
		if c.Auth.SessionSecret == "very-secret-key-change-me-in-production" {
			return fmt.Errorf("SESSION_SECRET must be changed from default value for production")
		}
	}

	return nil
}
