package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type SearchConfig struct {
	// MaxTrials bounds one pairwise search; 0 disables the budget.
	MaxTrials int `toml:"max_trials"`
}

type BatchConfig struct {
	Workers int `toml:"workers"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type Config struct {
	Search SearchConfig `toml:"search"`
	Batch  BatchConfig  `toml:"batch"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

func Default() *Config {
	return &Config{
		Search: SearchConfig{MaxTrials: 200000},
		Batch:  BatchConfig{Workers: runtime.NumCPU()},
		Server: ServerConfig{Port: "8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads a TOML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("FIGMATCH_MAX_TRIALS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FIGMATCH_MAX_TRIALS: %w", err)
		}
		c.Search.MaxTrials = n
	}
	if v := os.Getenv("FIGMATCH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FIGMATCH_WORKERS: %w", err)
		}
		c.Batch.Workers = n
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("FIGMATCH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Search.MaxTrials < 0 {
		return fmt.Errorf("search.max_trials must not be negative, got %d", c.Search.MaxTrials)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("batch.workers must be at least 1, got %d", c.Batch.Workers)
	}
	return nil
}
