package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the placeholder used when JWT_SECRET is unset
const DefaultJWTSecret = "your-secret-key-change-in-production"

// ErrDefaultJWTSecret is returned by Validate in release mode without JWT_SECRET
var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be set when GIN_MODE=release")

// Config 应用配置
type Config struct {
	Port           string
	DBPath         string
	JWTSecret      string
	SessionTimeout time.Duration
	GinMode        string

	Redis RedisConfig
	Log   LogConfig

	LoginRateLimit  int // login attempts per window and IP
	LoginRateWindow time.Duration
}

// RedisConfig holds the optional search result cache settings.
// An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// Load 加载配置
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", ":8080"),
		DBPath:         getEnv("DB_PATH", "./data/film_database.db"),
		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		SessionTimeout: getDuration("SESSION_TIMEOUT", 30*24*time.Hour),
		GinMode:        getEnv("GIN_MODE", "release"),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
			TTL:      getDuration("CACHE_TTL", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		LoginRateLimit:  getInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: getDuration("LOGIN_RATE_WINDOW", time.Minute),
	}
}

// UsesDefaultJWTSecret reports whether tokens are signed with the placeholder
func (c *Config) UsesDefaultJWTSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// Validate rejects settings the server must not run with
func (c *Config) Validate() error {
	if c.GinMode == "release" && c.UsesDefaultJWTSecret() {
		return ErrDefaultJWTSecret
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
