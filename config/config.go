package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/storage"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL          string
	ServerPort           int
	LogLevel             slog.Level
	AllowedOrigins       []string
	SessionIdleTTL       time.Duration
	SessionSweepInterval time.Duration
	RejectTiedScores     bool
	R2                   storage.CloudflareR2UploaderConfig
}

// ArchiveEnabled reports whether finished tournaments are uploaded to R2.
func (c *Config) ArchiveEnabled() bool {
	return !c.R2.IsZero()
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := strconv.Atoi(getEnvOrDefault("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	idleTTL, err := time.ParseDuration(getEnvOrDefault("SESSION_IDLE_TTL", "2h"))
	if err != nil || idleTTL <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TTL must be a positive duration, got %q", os.Getenv("SESSION_IDLE_TTL"))
	}

	sweep, err := time.ParseDuration(getEnvOrDefault("SESSION_SWEEP_INTERVAL", "10m"))
	if err != nil || sweep <= 0 {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL must be a positive duration, got %q", os.Getenv("SESSION_SWEEP_INTERVAL"))
	}

	rejectTies, err := strconv.ParseBool(getEnvOrDefault("CARDS_REJECT_TIED_SCORES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid CARDS_REJECT_TIED_SCORES environment variable: %w", err)
	}

	r2 := storage.CloudflareR2UploaderConfig{
		AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("R2_BUCKET_NAME"),
		PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}
	if !r2.IsZero() {
		if err := r2.Validate(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		DatabaseURL:          dbURL,
		ServerPort:           port,
		LogLevel:             level,
		AllowedOrigins:       splitOrigins(getEnvOrDefault("ALLOWED_ORIGINS", "*")),
		SessionIdleTTL:       idleTTL,
		SessionSweepInterval: sweep,
		RejectTiedScores:     rejectTies,
		R2:                   r2,
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
