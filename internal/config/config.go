// Package config resolves the tool's settings from defaults, an optional YAML
// file, an optional .env file and the process environment, in increasing
// order of precedence. Command-line flags are applied on top by cmd.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAvgEfficiency is the division-average points per 100 possessions
// used when neither the sample nor the settings supply one.
const DefaultAvgEfficiency = 103.0

// Environment variable names.
const (
	EnvDB                = "CBBMETRICS_DB"
	EnvAvgEfficiency     = "CBBMETRICS_AVG_EFF"
	EnvLogLevel          = "CBBMETRICS_LOG_LEVEL"
	EnvSeparateHalfCourt = "CBBMETRICS_SEPARATE_HALF_COURT"
)

// Config holds resolved settings.
type Config struct {
	DBPath            string  `yaml:"db_path"`
	AvgEfficiency     float64 `yaml:"avg_efficiency"`
	SeparateHalfCourt bool    `yaml:"separate_half_court"`
	LogLevel          string  `yaml:"log_level"`
}

// Default returns the built-in settings rooted at the user's home directory.
func Default() Config {
	return Config{
		DBPath:            filepath.Join(HomeDir(), ".cbbmetrics", "metrics.db"),
		AvgEfficiency:     DefaultAvgEfficiency,
		SeparateHalfCourt: true,
		LogLevel:          "info",
	}
}

// DefaultPath is the config file location used when none is given.
func DefaultPath() string {
	return filepath.Join(HomeDir(), ".cbbmetrics", "config.yaml")
}

// HomeDir returns the user's home directory, or "." when it cannot be resolved.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// Load resolves settings. A missing config file or env file is not an error;
// a malformed one is.
func Load(configPath string, envFiles ...string) (Config, error) {
	cfg := Default()
	if configPath != "" {
		if err := mergeFile(&cfg, configPath); err != nil {
			return cfg, err
		}
	}

	dotenv := map[string]string{}
	for _, f := range envFiles {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return cfg, fmt.Errorf("read env file %s: %w", f, err)
		}
		for k, v := range vals {
			if _, seen := dotenv[k]; !seen {
				dotenv[k] = v
			}
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvDB); ok {
		cfg.DBPath = v
	}
	if v, ok := lookup(EnvAvgEfficiency); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvAvgEfficiency, err)
		}
		cfg.AvgEfficiency = f
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvSeparateHalfCourt); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("parse %s: %w", EnvSeparateHalfCourt, err)
		}
		cfg.SeparateHalfCourt = b
	}
	return cfg, cfg.Validate()
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the engine cannot use.
func (c Config) Validate() error {
	if c.AvgEfficiency <= 0 {
		return fmt.Errorf("avg_efficiency must be positive, got %v", c.AvgEfficiency)
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	return nil
}
