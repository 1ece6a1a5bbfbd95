package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/zeusync/ifacedeps/internal/core/observability/log"
)

const (
	EnvValidationLevel   = "IFACEDEPS_VALIDATION_LEVEL"
	EnvProviderMaxDepth  = "IFACEDEPS_PROVIDER_MAX_DEPTH"
	EnvProviderCacheSize = "IFACEDEPS_PROVIDER_CACHE_SIZE"
	EnvLogLevel          = "IFACEDEPS_LOG_LEVEL"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// ValidationLevel is 0 (none), 1 (token compare) or 2 (type resolution).
	ValidationLevel   int
	ProviderMaxDepth  int
	ProviderCacheSize int
	LogLevel          string
}

func Default() *Config {
	return &Config{
		ValidationLevel:   0,
		ProviderMaxDepth:  1,
		ProviderCacheSize: 256,
		LogLevel:          "warn",
	}
}

// Load reads the given dotenv files (".env" when none are given, and only if
// it exists) and then the process environment, which takes precedence.
func Load(files ...string) (*Config, error) {
	dotenv, err := readDotenv(files)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(dotenv[key])
	}

	cfg := Default()
	if cfg.ValidationLevel, err = intValue(lookup, EnvValidationLevel, cfg.ValidationLevel); err != nil {
		return nil, err
	}
	if cfg.ProviderMaxDepth, err = intValue(lookup, EnvProviderMaxDepth, cfg.ProviderMaxDepth); err != nil {
		return nil, err
	}
	if cfg.ProviderCacheSize, err = intValue(lookup, EnvProviderCacheSize, cfg.ProviderCacheSize); err != nil {
		return nil, err
	}
	if v := lookup(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Level() log.Level {
	return log.ParseLevel(c.LogLevel)
}

func (c *Config) Validate() error {
	if c.ValidationLevel < 0 || c.ValidationLevel > 2 {
		return fmt.Errorf("%w: %s must be 0, 1 or 2, got %d", ErrInvalid, EnvValidationLevel, c.ValidationLevel)
	}
	if c.ProviderMaxDepth < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalid, EnvProviderMaxDepth, c.ProviderMaxDepth)
	}
	if c.ProviderCacheSize <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, EnvProviderCacheSize, c.ProviderCacheSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "silent", "off":
	default:
		return fmt.Errorf("%w: %s %q", ErrInvalid, EnvLogLevel, c.LogLevel)
	}
	return nil
}

func readDotenv(files []string) (map[string]string, error) {
	if len(files) == 0 {
		env, err := godotenv.Read()
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return env, err
	}
	return godotenv.Read(files...)
}

func intValue(lookup func(string) string, key string, def int) (int, error) {
	raw := lookup(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
	}
	return v, nil
}
