package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the cover console.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"cover-console"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPHost        string        `env:"HTTP_HOST" envDefault:"127.0.0.1"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"5001"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Database. sqlite:// and postgres:// URLs are both accepted.
	DatabaseURL    string        `env:"DATABASE_URL" envDefault:"sqlite://app.db"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Generated files
	GeneratedFilesFolder string `env:"GENERATED_FILES_FOLDER" envDefault:"generated_images"`
	PublicBaseURL        string `env:"PUBLIC_BASE_URL"` // e.g. "http://localhost:5001"; empty keeps file URLs relative
	MaxUploadBytes       int64  `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"`

	// External scheduler
	SchedulerURL       string        `env:"SCHEDULER_URL"`
	LegacySchedulerURL string        `env:"A1111_SCHEDULER_URL"`
	CallbackBaseURL    string        `env:"CALLBACK_BASE_URL"`
	LegacyCallbackURL  string        `env:"FLASK_CALLBACK_BASE_URL"`
	SchedulerTimeout   time.Duration `env:"SCHEDULER_TIMEOUT" envDefault:"15s"`

	// Live updates fan-out (optional)
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisChannel  string `env:"REDIS_CHANNEL" envDefault:"cover-console-events"`

	// S3 selection mirror (used when a project's selection path is s3://bucket/prefix)
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3Region       string `env:"S3_REGION" envDefault:"us-east-1"`
	S3AccessKeyID  string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.SchedulerURL = strings.TrimRight(strings.TrimSpace(firstNonEmpty(cfg.SchedulerURL, cfg.LegacySchedulerURL)), "/")
	cfg.CallbackBaseURL = strings.TrimRight(strings.TrimSpace(firstNonEmpty(cfg.CallbackBaseURL, cfg.LegacyCallbackURL)), "/")
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)

	if strings.TrimSpace(cfg.GeneratedFilesFolder) == "" {
		return nil, fmt.Errorf("GENERATED_FILES_FOLDER must not be empty")
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 50 * 1024 * 1024
	}
	if cfg.SchedulerTimeout <= 0 {
		cfg.SchedulerTimeout = 15 * time.Second
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// SchedulerConfigured reports whether an external scheduler URL is set.
func (c *Config) SchedulerConfigured() bool {
	return c.SchedulerURL != ""
}

// RedisEnabled reports whether live updates should be fanned out through Redis.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.RedisAddr) != ""
}

// S3Enabled reports whether credentials for the S3 selection mirror are present.
func (c *Config) S3Enabled() bool {
	return c.S3AccessKeyID != "" && c.S3SecretKey != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
