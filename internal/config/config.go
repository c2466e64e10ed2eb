// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string        `env:"DATABASE_URL,required"`
	Port              string        `env:"PORT" envDefault:"8080"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	CacheBackend      string        `env:"CACHE_BACKEND" envDefault:"memory"`
	CacheTTL          time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	CacheMaxEntries   int           `env:"CACHE_MAX_ENTRIES" envDefault:"1024"`
	RedisAddr         string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	SessionSecret     string        `env:"SESSION_SECRET"`
	JWTPrivateJWK     string        `env:"JWT_PRIVATE_JWK"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	AcceptBonusOnce   bool          `env:"ACCEPT_BONUS_ONCE" envDefault:"false"`
	CORSOrigins       []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	AutoMigrate       bool          `env:"AUTO_MIGRATE" envDefault:"true"`
}

// Load reads an optional .env file, then parses the environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[Env]: unable to load .env file: %v", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.RateLimitRequests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", cfg.RateLimitRequests)
	}
	return &cfg, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
