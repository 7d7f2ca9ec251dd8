// Package config loads settings for the fsmx binaries from a YAML or TOML
// file, a .env file and FSMX_* environment variables, in that order of
// increasing precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable Load reads.
const EnvPrefix = "FSMX_"

var (
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	ErrUnknownKey        = errors.New("unknown config key")
	ErrInvalidValue      = errors.New("invalid config value")
)

// Config holds the demo binary settings.
type Config struct {
	Log      Log      `yaml:"log" toml:"log" envPrefix:"LOG_"`
	Metrics  Metrics  `yaml:"metrics" toml:"metrics" envPrefix:"METRICS_"`
	Elevator Elevator `yaml:"elevator" toml:"elevator" envPrefix:"ELEVATOR_"`
	Describe Describe `yaml:"describe" toml:"describe" envPrefix:"DESCRIBE_"`
}

type Log struct {
	Level  string `yaml:"level" toml:"level" env:"LEVEL"`
	Format string `yaml:"format" toml:"format" env:"FORMAT"`
}

type Metrics struct {
	// Addr is the listen address for /metrics; empty disables the server.
	Addr string `yaml:"addr" toml:"addr" env:"ADDR"`
	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace" toml:"namespace" env:"NAMESPACE"`
}

type Elevator struct {
	// Floors is the number of floors the controller serves.
	Floors int `yaml:"floors" toml:"floors" env:"FLOORS"`
	// StrictList makes events nobody reacts to an error.
	StrictList bool `yaml:"strict_list" toml:"strict_list" env:"STRICT_LIST"`
}

type Describe struct {
	Format string `yaml:"format" toml:"format" env:"FORMAT"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		Log:      Log{Level: "info", Format: "text"},
		Metrics:  Metrics{Namespace: "fsmx"},
		Elevator: Elevator{Floors: 4},
		Describe: Describe{Format: "dot"},
	}
}

// Load reads path (skipped when empty), then the given .env files (".env"
// if none, ignored when missing), then the environment, and validates the
// result.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := loadDotEnv(envFiles); err != nil {
		return nil, err
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	case ".toml":
		meta, err := toml.Decode(string(data), c)
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("decode %s: %q: %w", path, undecoded[0].String(), ErrUnknownKey)
		}
	default:
		return fmt.Errorf("%s (%q): %w", path, ext, ErrUnsupportedFormat)
	}
	return nil
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// Validate checks every field and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: %w", c.Log.Format, ErrInvalidValue))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q: %w", c.Log.Level, ErrInvalidValue))
	}
	if c.Elevator.Floors < 2 {
		errs = append(errs, fmt.Errorf("elevator.floors %d, need at least 2: %w", c.Elevator.Floors, ErrInvalidValue))
	}
	switch c.Describe.Format {
	case "dot", "yaml", "json":
	default:
		errs = append(errs, fmt.Errorf("describe.format %q: %w", c.Describe.Format, ErrInvalidValue))
	}
	return errors.Join(errs...)
}
