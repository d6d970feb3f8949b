package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "REDIS_ADDR", "SESSION_TIMEOUT", "LOGIN_RATE_LIMIT", "CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != ":8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.DBPath != "./data/film_database.db" {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("expected cache disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.SessionTimeout != 30*24*time.Hour {
		t.Fatalf("unexpected session timeout %v", cfg.SessionTimeout)
	}
	if cfg.LoginRateLimit != 10 || cfg.LoginRateWindow != time.Minute {
		t.Fatalf("unexpected login rate limit %d/%v", cfg.LoginRateLimit, cfg.LoginRateWindow)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("DB_PATH", "/tmp/films.db")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("SESSION_TIMEOUT", "12h")
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")

	cfg := Load()
	if cfg.Port != ":9090" || cfg.DBPath != "/tmp/films.db" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Redis.Addr != "127.0.0.1:6379" || cfg.Redis.DB != 2 || cfg.Redis.TTL != 90*time.Second {
		t.Fatalf("unexpected redis config %+v", cfg.Redis)
	}
	if cfg.SessionTimeout != 12*time.Hour {
		t.Fatalf("unexpected session timeout %v", cfg.SessionTimeout)
	}
	if cfg.LoginRateLimit != 10 {
		t.Fatalf("invalid int should fall back to default, got %d", cfg.LoginRateLimit)
	}
}

func TestValidateJWTSecret(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		secret  string
		wantErr error
	}{
		{"release with placeholder", "release", "", ErrDefaultJWTSecret},
		{"release with secret", "release", "s3cr3t", nil},
		{"debug with placeholder", "debug", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GIN_MODE", tt.mode)
			t.Setenv("JWT_SECRET", tt.secret)

			cfg := Load()
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if got := cfg.UsesDefaultJWTSecret(); got != (tt.secret == "") {
				t.Fatalf("UsesDefaultJWTSecret() = %v", got)
			}
		})
	}
}
