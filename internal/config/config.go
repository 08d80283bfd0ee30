// Package config loads runtime settings for the stockform CLI. Values are
// layered: built-in defaults, then an optional YAML file, then a .env file,
// then STOCKFORM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-stockform/pkg/feedback"
	"github.com/goliatone/go-stockform/pkg/session"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "STOCKFORM_"

// Session backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full CLI configuration.
type Config struct {
	API        APIConfig         `yaml:"api" envPrefix:"API_"`
	Session    SessionConfig     `yaml:"session" envPrefix:"SESSION_"`
	Logging    LoggingConfig     `yaml:"logging" envPrefix:"LOG_"`
	Messages   feedback.Messages `yaml:"messages" envPrefix:"MESSAGES_"`
	Navigation NavigationConfig  `yaml:"navigation" envPrefix:"NAVIGATION_"`
}

// APIConfig locates the inventory API.
type APIConfig struct {
	BaseURL        string            `yaml:"base_url" env:"BASE_URL"`
	Timeout        time.Duration     `yaml:"timeout" env:"TIMEOUT"`
	RoutesDocument string            `yaml:"routes_document" env:"ROUTES_DOCUMENT"`
	AddProductPath string            `yaml:"add_product_path" env:"ADD_PRODUCT_PATH"`
	Headers        map[string]string `yaml:"headers" env:"HEADERS"`
}

// SessionConfig selects where the signed-in user record is kept.
type SessionConfig struct {
	Backend string      `yaml:"backend" env:"BACKEND"`
	Key     string      `yaml:"key" env:"KEY"`
	Path    string      `yaml:"path" env:"PATH"`
	Redis   RedisConfig `yaml:"redis" envPrefix:"REDIS_"`
}

// RedisConfig holds the connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	Prefix   string `yaml:"prefix" env:"PREFIX"`
}

// Options converts the settings for session.OpenRedisStore.
func (r RedisConfig) Options() session.RedisOptions {
	return session.RedisOptions{
		Addr:      r.Addr,
		Password:  r.Password,
		DB:        r.DB,
		KeyPrefix: r.Prefix,
	}
}

// LoggingConfig controls log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// NavigationConfig names the screen opened after a successful submit.
type NavigationConfig struct {
	Destination string `yaml:"destination" env:"DESTINATION"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 15 * time.Second,
		},
		Session: SessionConfig{
			Backend: BackendFile,
			Key:     session.DefaultKey,
			Path:    ".stockform/session.json",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "stockform:",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Messages: feedback.DefaultMessages(),
		Navigation: NavigationConfig{
			Destination: feedback.DestinationProductList,
		},
	}
}

// Load builds the configuration. path names an optional YAML file; an empty
// path skips it. dotenv lists .env files to load before reading the
// environment; when none are given ".env" is tried and silently skipped if
// absent. Variables already present in the environment win over .env values.
func Load(path string, dotenv ...string) (Config, error) {
	cfg := Defaults()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := loadDotenv(dotenv); err != nil {
		return Config{}, err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}

	cfg.Messages = cfg.Messages.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotenv(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("config: load dotenv: %w", err)
	}
	return nil
}

// Validate checks the settings that cannot be caught later by the component
// that uses them.
func (c Config) Validate() error {
	switch c.Session.Backend {
	case BackendFile, BackendSQLite:
		if strings.TrimSpace(c.Session.Path) == "" {
			return fmt.Errorf("%w: session.path is required for the %s backend", ErrInvalidConfig, c.Session.Backend)
		}
	case BackendRedis:
		if strings.TrimSpace(c.Session.Redis.Addr) == "" {
			return fmt.Errorf("%w: session.redis.addr is required", ErrInvalidConfig)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown session backend %q", ErrInvalidConfig, c.Session.Backend)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Logging.Format)
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("%w: api.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
