package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB      DatabaseConfig
	Redis   RedisConfig
	Payment PaymentConfig
	Mail    MailConfig
	S3      S3Config
	Worker  WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// PaymentConfig contains credentials for the payment gateway.
type PaymentConfig struct {
	BaseURL       string
	APIKey        string
	WebhookSecret string
	Currency      string
}

// MailConfig contains the transactional mail relay settings.
type MailConfig struct {
	RelayURL string
	APIKey   string
	FromAddr string
	ShopName string
}

// S3Config contains object storage configuration for customization uploads.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	NotifyInterval  time.Duration
	PendingInterval time.Duration
	PendingMaxAge   time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Payment gateway
	cfg.Payment = PaymentConfig{
		BaseURL:       getEnv("PAYMENT_BASE_URL", "https://api.payform.dev"),
		APIKey:        getEnv("PAYMENT_API_KEY", ""),
		WebhookSecret: getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		Currency:      getEnv("PAYMENT_CURRENCY", "EUR"),
	}

	// Mail relay
	cfg.Mail = MailConfig{
		RelayURL: getEnv("MAIL_RELAY_URL", ""),
		APIKey:   getEnv("MAIL_API_KEY", ""),
		FromAddr: getEnv("MAIL_FROM", "orders@printhaus.example"),
		ShopName: getEnv("MAIL_SHOP_NAME", "Printhaus"),
	}

	// Object storage (customization file uploads)
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "eu-central-1"),
		Bucket:          getEnv("S3_BUCKET", "printhaus-uploads"),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	// Workers (durations)
	var err error
	if cfg.Worker.NotifyInterval, err = parseDurationEnv("NOTIFY_RETRY_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_RETRY_INTERVAL: %w", err)
	}
	if cfg.Worker.PendingInterval, err = parseDurationEnv("PENDING_SWEEP_INTERVAL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid PENDING_SWEEP_INTERVAL: %w", err)
	}
	if cfg.Worker.PendingMaxAge, err = parseDurationEnv("PENDING_MAX_AGE", "24h"); err != nil {
		return nil, fmt.Errorf("invalid PENDING_MAX_AGE: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
