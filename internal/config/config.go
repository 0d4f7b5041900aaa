package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Email    EmailConfig
	Stripe   StripeConfig
	MinIO    MinIOConfig
	Wall     WallConfig
	Couple   CoupleConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	BaseURL     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	AdminExpiry time.Duration
}

// AdminConfig protects the moderation surface.
// PasswordHash is a bcrypt hash; an empty hash disables admin login.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort string
	From     string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	APIURL        string
	SuccessURL    string
	CancelURL     string
	// UseMock swaps in the mock gateway (development, tests).
	UseMock bool
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// WallConfig carries the per-view staleness knobs. Each surface gets its
// own TTL rather than one global policy.
type WallConfig struct {
	WallTTL      time.Duration
	CarouselTTL  time.Duration
	AlbumTTL     time.Duration
	PollInterval time.Duration
}

// CoupleConfig tunes the submission listing surface.
type CoupleConfig struct {
	// ListCacheTTL bounds staleness of the shared list cache.
	ListCacheTTL time.Duration
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Love Wall API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			BaseURL:     getEnv("APP_BASE_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "lovewall"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AdminExpiry: getEnvDuration("JWT_ADMIN_EXPIRY", 12*time.Hour),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Email: EmailConfig{
			SMTPHost: getEnv("SMTP_HOST", "localhost"),
			SMTPPort: getEnv("SMTP_PORT", "1025"),
			From:     getEnv("EMAIL_FROM", "noreply@lovewall.app"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			APIURL:        getEnv("STRIPE_API_URL", "https://api.stripe.com"),
			SuccessURL:    getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/success?session_id={CHECKOUT_SESSION_ID}"),
			CancelURL:     getEnv("STRIPE_CANCEL_URL", "http://localhost:3000"),
			UseMock:       getEnvBool("STRIPE_USE_MOCK", true),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "lovewall"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Wall: WallConfig{
			WallTTL:      getEnvDuration("WALL_CACHE_TTL", 60*time.Second),
			CarouselTTL:  getEnvDuration("CAROUSEL_CACHE_TTL", 45*time.Second),
			AlbumTTL:     getEnvDuration("ALBUM_CACHE_TTL", 120*time.Second),
			PollInterval: getEnvDuration("WALL_POLL_INTERVAL", 60*time.Second),
		},
		Couple: CoupleConfig{
			ListCacheTTL: getEnvDuration("COUPLES_LIST_CACHE_TTL", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks critical config values.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Admin.PasswordHash == "" {
			return fmt.Errorf("ADMIN_PASSWORD_HASH must be set in production")
		}
		if c.Stripe.UseMock {
			fmt.Println("WARNING: STRIPE_USE_MOCK is enabled in production - payments are not real")
		}
		if c.Stripe.SecretKey == "" && !c.Stripe.UseMock {
			return fmt.Errorf("STRIPE_SECRET_KEY must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
