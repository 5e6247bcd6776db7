package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "HOURS_"
	envConfigFile = "HOURS_CONFIG"
	// legacyRateEnv is read for compatibility with existing .env files.
	legacyRateEnv = "HOURLY_RATE"
)

type loadOptions struct {
	configFile string
	envFile    string
}

// Option customises Load.
type Option func(*loadOptions)

// WithFile loads the YAML file at path. It overrides HOURS_CONFIG.
func WithFile(path string) Option {
	return func(o *loadOptions) { o.configFile = path }
}

// WithEnvFile loads dotenv variables from path before reading the
// environment. A missing file is not an error.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) { o.envFile = path }
}

// Load builds a Config by layering defaults, an optional YAML file, an
// optional .env file and HOURS_* environment variables. Nested keys use a
// double underscore: HOURS_PIE__THRESHOLD -> pie.threshold.
func Load(_ context.Context, opts ...Option) (*Config, error) {
	o := loadOptions{
		configFile: os.Getenv(envConfigFile),
		envFile:    ".env",
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.envFile != "" {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: env file %s: %v", ErrLoadConfig, o.envFile, err)
		}
	}

	base := New()
	k := koanf.New(".")

	if o.configFile != "" {
		if err := k.Load(file.Provider(o.configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, o.configFile, err)
		}
	}

	legacy := env.Provider(legacyRateEnv, ".", func(s string) string {
		if s == legacyRateEnv {
			return "hourly_rate"
		}
		return ""
	})
	if err := k.Load(legacy, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	envProvider := env.Provider(envPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps HOURS_PIE__TEXT_RADIUS to pie.text_radius.
func envKey(s string) string {
	if s == envConfigFile {
		return ""
	}
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}
