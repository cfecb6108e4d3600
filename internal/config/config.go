package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	BaseURL string

	// SuperAdminEmail always resolves to superadmin regardless of stored role rows.
	SuperAdminEmail string
	RoleCacheTTL    time.Duration
	RoleCacheSize   int

	NotificationPollInterval time.Duration
	RateLimitPerMinute       int
	RateLimitBurst           int

	KV      KVConfig
	Logging LoggingConfig
	SMTP    SMTPConfig
}

type KVConfig struct {
	Backend    string // memory | postgres | sqlite
	SQLitePath string
}

type LoggingConfig struct {
	Level      string
	Format     string // json | text
	Output     string // stdout | file
	FilePath   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:        getEnvOrPanic("JWT_SECRET"),
		JWTAccessExpiry:  getDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDuration("JWT_REFRESH_EXPIRY", 168*time.Hour),

		BaseURL: getEnv("BASE_URL", "http://localhost:5173"),

		SuperAdminEmail: strings.ToLower(strings.TrimSpace(getEnv("SUPERADMIN_EMAIL", ""))),
		RoleCacheTTL:    getDuration("ROLE_CACHE_TTL", 30*time.Second),
		RoleCacheSize:   getInt("ROLE_CACHE_SIZE", 1024),

		NotificationPollInterval: getDuration("NOTIFICATION_POLL_INTERVAL", 30*time.Second),
		RateLimitPerMinute:       getInt("RATE_LIMIT_PER_MINUTE", 600),
		RateLimitBurst:           getInt("RATE_LIMIT_BURST", 50),

		KV: KVConfig{
			Backend:    getEnv("KV_BACKEND", "postgres"),
			SQLitePath: getEnv("KV_SQLITE_PATH", "data/kv.db"),
		},

		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/tripvote.log"),
			MaxSize:    getInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getInt("LOG_MAX_AGE_DAYS", 28),
			Compress:   getEnv("LOG_COMPRESS", "true") == "true",
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return n
}
