// Package config loads the service configuration from viper, which merges an
// optional YAML file, the environment and the defaults registered here.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Blob     BlobConfig
	Events   EventsConfig
	Articles ArticleDefaultsConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string
	Env             string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     string
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret string
}

// BlobConfig holds the MinIO connection used for uploads.
type BlobConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
	Bucket    string
	PublicURL string // base of returned object URLs; empty derives it from Endpoint
}

// EventsConfig holds RabbitMQ settings. An empty URL disables events.
type EventsConfig struct {
	URL      string
	Exchange string
}

// ArticleDefaultsConfig holds values applied to articles created without them.
type ArticleDefaultsConfig struct {
	Category     string
	ReadTime     string
	AuthorName   string
	AuthorBio    string
	AuthorAvatar string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string
	Format     string // "json" or "pretty"
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "change-me-in-production"

func setDefaults() {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("REQUEST_TIMEOUT", "15s")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("CORS_ORIGINS", "*")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=kikisite port=5432 sslmode=disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	viper.SetDefault("JWT_SECRET", DefaultJWTSecret)

	viper.SetDefault("MINIO_ENDPOINT", "127.0.0.1:9000")
	viper.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	viper.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	viper.SetDefault("MINIO_SECURE", false)
	viper.SetDefault("MINIO_BUCKET", "kikisite")
	viper.SetDefault("BLOB_PUBLIC_URL", "")

	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("RABBITMQ_EXCHANGE", "content")

	viper.SetDefault("ARTICLE_DEFAULT_CATEGORY", "未分类")
	viper.SetDefault("ARTICLE_DEFAULT_READTIME", "5分钟")
	viper.SetDefault("ARTICLE_DEFAULT_AUTHOR_NAME", "张紫琪 (KIKI)")
	viper.SetDefault("ARTICLE_DEFAULT_AUTHOR_BIO", "广东顺佳兴不锈钢有限公司创始人，13年不锈钢行业经验")
	viper.SetDefault("ARTICLE_DEFAULT_AUTHOR_AVATAR", "/kiki-profile.jpg")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LOG_FILE", "")
	viper.SetDefault("LOG_MAX_SIZE", 128)
	viper.SetDefault("LOG_MAX_BACKUPS", 5)
	viper.SetDefault("LOG_MAX_AGE", 16)
	viper.SetDefault("LOG_COMPRESS", false)
}

// Load reads the configuration from viper and validates it.
func Load() (*Config, error) {
	setDefaults()
	viper.AutomaticEnv() // Load environment variables

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetString("APP_PORT"),
			Env:             viper.GetString("APP_ENV"),
			RequestTimeout:  viper.GetDuration("REQUEST_TIMEOUT"),
			ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
			CORSOrigins:     viper.GetString("CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(viper.GetString("DATABASE_DRIVER")),
			DSN:             viper.GetString("DATABASE_DSN"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
		},
		Blob: BlobConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			Secure:    viper.GetBool("MINIO_SECURE"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			PublicURL: viper.GetString("BLOB_PUBLIC_URL"),
		},
		Events: EventsConfig{
			URL:      viper.GetString("RABBITMQ_URL"),
			Exchange: viper.GetString("RABBITMQ_EXCHANGE"),
		},
		Articles: ArticleDefaultsConfig{
			Category:     viper.GetString("ARTICLE_DEFAULT_CATEGORY"),
			ReadTime:     viper.GetString("ARTICLE_DEFAULT_READTIME"),
			AuthorName:   viper.GetString("ARTICLE_DEFAULT_AUTHOR_NAME"),
			AuthorBio:    viper.GetString("ARTICLE_DEFAULT_AUTHOR_BIO"),
			AuthorAvatar: viper.GetString("ARTICLE_DEFAULT_AUTHOR_AVATAR"),
		},
		Log: LogConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			Format:     viper.GetString("LOG_FORMAT"),
			File:       viper.GetString("LOG_FILE"),
			MaxSize:    viper.GetInt("LOG_MAX_SIZE"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAge:     viper.GetInt("LOG_MAX_AGE"),
			Compress:   viper.GetBool("LOG_COMPRESS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.Database.MaxOpenConns <= 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database pool sizes must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// UsesDefaultSecret reports whether the development JWT secret is in use.
func (c *Config) UsesDefaultSecret() bool {
	return c.Auth.JWTSecret == DefaultJWTSecret
}
