package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	CORS         CORSConfig
	RateLimit    RateLimitConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters. One signing secret serves the
// whole process; session and service tokens differ only in TTL.
type AuthConfig struct {
	JWTSecret              string
	SessionTokenTTLMinutes int
	ServiceTokenTTLHours   int
	PINResetTTLMinutes     int
	BcryptCost             int
}

// CORSConfig lists browser origins allowed to send credentialed requests.
type CORSConfig struct {
	AllowOrigins string
}

// RateLimitConfig bounds login attempts per client IP.
type RateLimitConfig struct {
	Enabled           bool
	LoginRequests     int
	LoginWindowSecond int
	KeyPrefix         string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "paykash-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:              getEnv("AUTH_JWT_SECRET", "dev-secret"),
			SessionTokenTTLMinutes: getEnvAsInt("AUTH_SESSION_TOKEN_TTL_MINUTES", 60),
			ServiceTokenTTLHours:   getEnvAsInt("AUTH_SERVICE_TOKEN_TTL_HOURS", 365*24),
			PINResetTTLMinutes:     getEnvAsInt("AUTH_PIN_RESET_TTL_MINUTES", 30),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:5174"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			LoginRequests:     getEnvAsInt("RATE_LIMIT_LOGIN_REQUESTS", 10),
			LoginWindowSecond: getEnvAsInt("RATE_LIMIT_LOGIN_WINDOW_SECONDS", 60),
			KeyPrefix:         getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit:"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@paykash.app"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// Production reports whether the deployment mode hardens cookie attributes.
func (a AppConfig) Production() bool {
	return strings.EqualFold(a.Env, "production")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTokenTTL is the lifetime for login-issued tokens.
func (a AuthConfig) SessionTokenTTL() time.Duration {
	return time.Duration(a.SessionTokenTTLMinutes) * time.Minute
}

// ServiceTokenTTL is the lifetime for mint-endpoint tokens.
func (a AuthConfig) ServiceTokenTTL() time.Duration {
	return time.Duration(a.ServiceTokenTTLHours) * time.Hour
}

// PINResetTTL bounds how long a reset token stays redeemable.
func (a AuthConfig) PINResetTTL() time.Duration {
	return time.Duration(a.PINResetTTLMinutes) * time.Minute
}

// LoginWindow returns the sliding window size for login rate limiting.
func (r RateLimitConfig) LoginWindow() time.Duration {
	return time.Duration(r.LoginWindowSecond) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
