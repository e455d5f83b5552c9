// Package config provides YAML-based configuration loading for DevDesk.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"devdesk/internal/board"
)

// Config is the top-level configuration, loaded from devdesk.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Board    BoardConfig    `yaml:"board"`
	AI       AIConfig       `yaml:"ai"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// BoardConfig tunes the kanban board behaviour.
type BoardConfig struct {
	// DismissPolicy is "skip" (closing the hours prompt still completes the
	// item) or "abort" (closing it cancels the move).
	DismissPolicy string `yaml:"dismiss_policy"`
}

// AIConfig holds the completion API settings. AI features are off without a key.
type AIConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config file from path and returns a validated Config.
// A missing file yields the defaults when optional is set.
func Load(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/devdesk.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Board.DismissPolicy == "" {
		c.Board.DismissPolicy = string(board.DismissSkip)
	}
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4o-mini"
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 60 * time.Second
	}
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, "server.addr is required")
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, "database.path is required")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := board.ParseDismissPolicy(c.Board.DismissPolicy); err != nil {
		errs = append(errs, "board.dismiss_policy: "+err.Error())
	}
	if c.AI.Timeout < 0 {
		errs = append(errs, "ai.timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

// DismissPolicy returns the parsed board dismiss policy.
func (c *Config) DismissPolicy() board.DismissPolicy {
	p, err := board.ParseDismissPolicy(c.Board.DismissPolicy)
	if err != nil {
		return board.DismissSkip
	}
	return p
}

func parseLevel(raw string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q is not one of debug, info, warn, error", raw)
	}
	return lvl, nil
}
