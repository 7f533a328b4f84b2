// Package config loads plotarc settings from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const appName = "plotarc"

type Config struct {
	Storage  StorageConfig  `yaml:"storage" validate:"required"`
	Analysis AnalysisConfig `yaml:"analysis" validate:"required"`
	Live     LiveConfig     `yaml:"live" validate:"required"`
	Server   ServerConfig   `yaml:"server" validate:"required"`
	Log      LogConfig      `yaml:"log" validate:"required"`
}

type StorageConfig struct {
	Backend       string `yaml:"backend" env:"PLOTARC_STORAGE_BACKEND" validate:"required,oneof=file sqlite"`
	DataDir       string `yaml:"data_dir" env:"PLOTARC_DATA_DIR" validate:"required"`
	SessionNaming string `yaml:"session_naming" env:"PLOTARC_SESSION_NAMING" validate:"omitempty,oneof=uuid timestamp descriptive"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"PLOTARC_LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	Format string `yaml:"format" env:"PLOTARC_LOG_FORMAT" validate:"required,oneof=text json"`
}

// Default returns a configuration that needs no file
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:       "file",
			DataDir:       defaultDataDir(),
			SessionNaming: "timestamp",
		},
		Analysis: DefaultAnalysis(),
		Live:     DefaultLive(),
		Server:   DefaultServer(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error: defaults apply. Environment
// variables (including those from .env) override file values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = getConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Path is the config file Load reads when given no explicit path
func Path() string {
	return getConfigPath()
}

func getConfigPath() string {
	// 1. Explicit config path via environment variable
	if path := os.Getenv("PLOTARC_CONFIG"); path != "" {
		return expandTilde(path)
	}

	// 2. --config flag is handled by the caller

	// 3. XDG_CONFIG_HOME
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName, "config.yaml")
	}

	// 4. ~/.config/plotarc/config.yaml
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName, "config.yaml")
}

func defaultDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// expandTilde expands a tilde (~) at the beginning of a path to the user's home directory
func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func (c *Config) validate() error {
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = defaultDataDir()
	} else {
		c.Storage.DataDir = expandTilde(c.Storage.DataDir)
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Save writes c as YAML to path, creating its directory
func Save(c *Config, path string) error {
	if path == "" {
		path = getConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
