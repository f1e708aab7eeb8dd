// Package config loads server settings from the environment, an optional
// .env file and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
)

type Config struct {
	PostgresConn      string        `validate:"required"`
	ServerAddress     string        `validate:"required,hostname_port"`
	GeoBaseURL        string        `validate:"omitempty,url"`
	GeoTimeout        time.Duration `validate:"gt=0"`
	RedisAddr         string        `validate:"omitempty,hostname_port"`
	RedisPassword     string
	RedisDB           int           `validate:"gte=0"`
	DiscoveryCacheTTL time.Duration `validate:"gt=0"`
	SortLocale        string        `validate:"required,bcp47_language_tag"`
	AwardPolicy       string        `validate:"omitempty,oneof=permissive block-reaward"`
	LogLevel          string        `validate:"oneof=debug info warn error"`
	MigrateOnly       bool
}

// Load reads the configuration. args are the command-line arguments
// without the program name.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		PostgresConn:  os.Getenv("POSTGRES_CONN"),
		ServerAddress: envOr("SERVER_ADDRESS", "0.0.0.0:8080"),
		GeoBaseURL:    os.Getenv("GEO_BASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SortLocale:    envOr("SORT_LOCALE", "tr"),
		AwardPolicy:   strings.ToLower(envOr("AWARD_POLICY", "permissive")),
		LogLevel:      strings.ToLower(envOr("LOG_LEVEL", "info")),
	}

	var err error
	if cfg.GeoTimeout, err = envDuration("GEO_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.DiscoveryCacheTTL, err = envDuration("DISCOVERY_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if cfg.RedisDB, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("REDIS_DB: %w", err)
		}
	}

	flags := pflag.NewFlagSet("market-server", pflag.ContinueOnError)
	flags.StringVar(&cfg.ServerAddress, "addr", cfg.ServerAddress, "listen address")
	flags.BoolVar(&cfg.MigrateOnly, "migrate-only", false, "apply migrations and exit")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Locale is the collation locale for vendor sorting.
func (c *Config) Locale() language.Tag {
	return language.Make(c.SortLocale)
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
