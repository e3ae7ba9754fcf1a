package config

import (
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/fredericocrmartins-gif/Padel-Pro-Manager-World/storage"
)

var configKeys = []string{
	"DATABASE_URL", "SERVER_PORT", "LOG_LEVEL", "ALLOWED_ORIGINS",
	"SESSION_IDLE_TTL", "SESSION_SWEEP_INTERVAL", "CARDS_REJECT_TIED_SCORES",
	"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/padel?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.ServerPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %s", cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.SessionIdleTTL != 2*time.Hour || cfg.SessionSweepInterval != 10*time.Minute {
		t.Errorf("unexpected session timings %s/%s", cfg.SessionIdleTTL, cfg.SessionSweepInterval)
	}
	if cfg.RejectTiedScores {
		t.Error("tied scores should be accepted by default")
	}
	if cfg.ArchiveEnabled() {
		t.Error("archive should be disabled without R2 settings")
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/padel")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_ORIGINS", "https://club.example, https://admin.example ,")
	t.Setenv("SESSION_IDLE_TTL", "30m")
	t.Setenv("SESSION_SWEEP_INTERVAL", "1m")
	t.Setenv("CARDS_REJECT_TIED_SCORES", "true")
	t.Setenv("R2_ACCOUNT_ID", "acc")
	t.Setenv("R2_ACCESS_KEY_ID", "key")
	t.Setenv("R2_SECRET_ACCESS_KEY", "secret")
	t.Setenv("R2_BUCKET_NAME", "archive")
	t.Setenv("R2_PUBLIC_BASE_URL", "https://cdn.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerPort != 9090 || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("unexpected port/level %d/%s", cfg.ServerPort, cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://club.example", "https://admin.example"}) {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.SessionIdleTTL != 30*time.Minute || cfg.SessionSweepInterval != time.Minute {
		t.Errorf("unexpected session timings %s/%s", cfg.SessionIdleTTL, cfg.SessionSweepInterval)
	}
	if !cfg.RejectTiedScores {
		t.Error("expected tied scores to be rejected")
	}
	if !cfg.ArchiveEnabled() || cfg.R2.BucketName != "archive" {
		t.Errorf("expected archive to be enabled, got %+v", cfg.R2)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{}},
		{"bad port", map[string]string{"DATABASE_URL": "x", "SERVER_PORT": "http"}},
		{"port out of range", map[string]string{"DATABASE_URL": "x", "SERVER_PORT": "70000"}},
		{"bad log level", map[string]string{"DATABASE_URL": "x", "LOG_LEVEL": "verbose"}},
		{"bad idle ttl", map[string]string{"DATABASE_URL": "x", "SESSION_IDLE_TTL": "soon"}},
		{"negative sweep", map[string]string{"DATABASE_URL": "x", "SESSION_SWEEP_INTERVAL": "-1m"}},
		{"bad tie flag", map[string]string{"DATABASE_URL": "x", "CARDS_REJECT_TIED_SCORES": "maybe"}},
		{"partial r2", map[string]string{"DATABASE_URL": "x", "R2_BUCKET_NAME": "archive"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoad_PartialR2IsIncomplete(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "x")
	t.Setenv("R2_ACCOUNT_ID", "acc")

	_, err := Load()
	if !errors.Is(err, storage.ErrR2ConfigIncomplete) {
		t.Errorf("expected ErrR2ConfigIncomplete, got %v", err)
	}
}
