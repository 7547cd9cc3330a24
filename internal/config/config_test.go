package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.App.Environment = "dev"
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("expected default dev config to validate, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: "APP_NAME",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.App.Environment = "staging" },
			wantErr: "APP_ENV",
		},
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.DB.Path = "" },
			wantErr: "DB_PATH",
		},
		{
			name:    "empty migrations path",
			mutate:  func(c *Config) { c.DB.MigrationsPath = "" },
			wantErr: "DB_MIGRATIONS_PATH",
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *Config) { c.Storage.Backend = "ftp" },
			wantErr: "STORAGE_BACKEND",
		},
		{
			name: "local backend without path",
			mutate: func(c *Config) {
				c.Storage.Backend = "local"
				c.Storage.LocalPath = ""
			},
			wantErr: "STORAGE_LOCAL_PATH",
		},
		{
			name: "s3 backend without bucket",
			mutate: func(c *Config) {
				c.Storage.Backend = "s3"
				c.Storage.S3.Endpoint = "http://localhost:3900"
				c.Storage.S3.Bucket = ""
			},
			wantErr: "S3_BUCKET",
		},
		{
			name:    "empty default media key",
			mutate:  func(c *Config) { c.Media.DefaultKey = "" },
			wantErr: "MEDIA_DEFAULT_KEY",
		},
		{
			name:    "zero max upload size",
			mutate:  func(c *Config) { c.Media.MaxUploadSize = 0 },
			wantErr: "MEDIA_MAX_UPLOAD_SIZE",
		},
		{
			name:    "privileged port",
			mutate:  func(c *Config) { c.HTTP.Port = 80 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.HTTP.Timeouts.Read = 0 },
			wantErr: "HTTP_READ_TIMEOUT",
		},
		{
			name:    "zero limiter rps",
			mutate:  func(c *Config) { c.Limiter.RPS = 0 },
			wantErr: "LIMITER_RPS",
		},
		{
			name:    "zero session ttl",
			mutate:  func(c *Config) { c.Auth.SessionTTL = 0 },
			wantErr: "SESSION_TTL",
		},
		{
			name:    "default session secret in prod",
			mutate:  func(c *Config) { c.App.Environment = "prod" },
			wantErr: "SESSION_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadWithDefaultsHonoursEnv(t *testing.T) {
	t.Setenv("APP_NAME", "Test Distributor")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "media")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MEDIA_MAX_UPLOAD_SIZE", "1048576")
	t.Setenv("TRUSTED_PROXY", "true")

	cfg := LoadWithDefaults()

	if cfg.App.Name != "Test Distributor" {
		t.Errorf("expected APP_NAME override, got %q", cfg.App.Name)
	}
	if cfg.Storage.Backend != "s3" || cfg.Storage.S3.Bucket != "media" {
		t.Errorf("expected s3 backend with bucket, got %q/%q", cfg.Storage.Backend, cfg.Storage.S3.Bucket)
	}
	if cfg.Auth.SessionTTL != 30*time.Minute {
		t.Errorf("expected 30m session TTL, got %s", cfg.Auth.SessionTTL)
	}
	if cfg.Media.MaxUploadSize != 1<<20 {
		t.Errorf("expected 1MiB upload cap, got %d", cfg.Media.MaxUploadSize)
	}
	if !cfg.Proxy.Trusted {
		t.Error("expected TRUSTED_PROXY to be honoured")
	}
}

func TestLoadWithDefaultsIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("SESSION_TTL", "soon")

	cfg := LoadWithDefaults()

	if cfg.HTTP.Port != DefaultConfig().HTTP.Port {
		t.Errorf("malformed HTTP_PORT should fall back to default, got %d", cfg.HTTP.Port)
	}
	if cfg.Auth.SessionTTL != DefaultConfig().Auth.SessionTTL {
		t.Errorf("malformed SESSION_TTL should fall back to default, got %s", cfg.Auth.SessionTTL)
	}
}
