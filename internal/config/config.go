// Package config reads bazaar-api settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Host is the public base URL used for Location headers.
	Host string `env:"HOST" envDefault:"http://localhost:3030"`
	Addr string `env:"ADDR" envDefault:":3030"`

	DatabaseURL string `env:"DATABASE_URL"`
	Store       string `env:"STORE" envDefault:"postgres"`

	CacheProvider      string        `env:"CACHE_PROVIDER" envDefault:"lru"`
	CacheCapacity      int           `env:"CACHE_CAPACITY" envDefault:"1000"`
	CompactFormat      string        `env:"COMPACT_FORMAT" envDefault:"msgpack"`
	CoalesceMisses     bool          `env:"COALESCE_MISSES" envDefault:"false"`
	GenCleanupInterval time.Duration `env:"GEN_CLEANUP_INTERVAL" envDefault:"1h"`
	GenRetention       time.Duration `env:"GEN_RETENTION" envDefault:"720h"`
	HookQueue          int           `env:"HOOK_QUEUE" envDefault:"1024"`

	LogBackend string `env:"LOG_BACKEND" envDefault:"zap"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	MaxBodyBytes    int           `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads .env when one exists in the working directory, then the
// process environment. Real environment variables win over .env.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func oneOf(name, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", name, strings.Join(allowed, "|"), v)
}

func (c *Config) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	add(oneOf("STORE", c.Store, "postgres", "memory"))
	add(oneOf("CACHE_PROVIDER", c.CacheProvider, "lru", "ristretto", "bigcache"))
	add(oneOf("COMPACT_FORMAT", c.CompactFormat, "msgpack", "cbor"))
	add(oneOf("LOG_BACKEND", c.LogBackend, "zap", "logrus", "zerolog", "slog"))
	if c.Store == "postgres" && c.DatabaseURL == "" {
		add(errors.New("DATABASE_URL is required when STORE=postgres"))
	}
	if c.CacheCapacity <= 0 {
		add(fmt.Errorf("CACHE_CAPACITY must be positive, got %d", c.CacheCapacity))
	}
	if c.HookQueue <= 0 {
		add(fmt.Errorf("HOOK_QUEUE must be positive, got %d", c.HookQueue))
	}
	if c.MaxBodyBytes <= 0 {
		add(fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes))
	}
	if _, err := url.Parse(c.Host); err != nil {
		add(fmt.Errorf("HOST: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// String renders the config with the database password masked.
func (c *Config) String() string {
	dsn := "(empty)"
	if c.DatabaseURL != "" {
		dsn = "(unparseable)"
		if u, err := url.Parse(c.DatabaseURL); err == nil {
			dsn = u.Redacted()
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "host=%s addr=%s store=%s db=%s ", c.Host, c.Addr, c.Store, dsn)
	fmt.Fprintf(&sb, "cache=%s/%d compact=%s coalesce=%t ", c.CacheProvider, c.CacheCapacity, c.CompactFormat, c.CoalesceMisses)
	fmt.Fprintf(&sb, "log=%s/%s", c.LogBackend, c.LogLevel)
	return sb.String()
}
