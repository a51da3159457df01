// Package config handles loading and managing application configuration
// from YAML files, .env files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "qrgen.yaml"

// Config holds all application configuration values.
type Config struct {
	GitHubURL          string   `yaml:"github_url"`
	DockerURL          string   `yaml:"docker_url"`
	OutputDir          string   `yaml:"output_dir"`
	FillColor          string   `yaml:"fill_color"`
	BackColor          string   `yaml:"back_color"`
	Size               int      `yaml:"size"`
	Recovery           string   `yaml:"recovery"`
	DataDir            string   `yaml:"data_dir"`
	History            bool     `yaml:"history"`
	WebhookURL         string   `yaml:"webhook_url"`
	Port               int      `yaml:"port"`
	RegenerateInterval Duration `yaml:"regenerate_interval"`
	LogLevel           string   `yaml:"log_level"`
	LogFormat          string   `yaml:"log_format"`
}

// Duration is a wrapper around time.Duration that supports YAML unmarshalling
// from human-readable strings like "30s", "5m", "1h".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Defaults returns a Config populated with the built-in default values.
func Defaults() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		GitHubURL: "https://github.com/Hanyyoussef4/Assignment7",
		DockerURL: "https://hub.docker.com/r/hany25/qr-code-generator-app",
		OutputDir: "qr_codes",
		FillColor: "blue",
		BackColor: "white",
		Size:      -10,
		Recovery:  "medium",
		DataDir:   filepath.Join(homeDir, ".qrgen"),
		History:   true,
		Port:      8556,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds the configuration in order of increasing precedence: defaults,
// the YAML file at path (skipped if it does not exist), then environment
// variables. A .env file in the working directory is loaded into the
// environment first without overriding variables that are already set.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}
	return LoadFile(path)
}

// LoadFile is Load without the .env step.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — proceed with defaults.
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to cfg. The URL,
// directory and color variables keep their historical unprefixed names.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GITHUB_URL"); v != "" {
		cfg.GitHubURL = v
	}
	if v := os.Getenv("DOCKER_URL"); v != "" {
		cfg.DockerURL = v
	}
	if v := os.Getenv("QR_CODE_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("FILL_COLOR"); v != "" {
		cfg.FillColor = v
	}
	if v := os.Getenv("BACK_COLOR"); v != "" {
		cfg.BackColor = v
	}
	if v := os.Getenv("QRGEN_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Size = n
		}
	}
	if v := os.Getenv("QRGEN_RECOVERY"); v != "" {
		cfg.Recovery = v
	}
	if v := os.Getenv("QRGEN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("QRGEN_HISTORY"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.History = true
		case "false", "0", "no":
			cfg.History = false
		}
	}
	if v := os.Getenv("QRGEN_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("QRGEN_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("QRGEN_REGENERATE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RegenerateInterval = Duration{d}
		}
	}
	if v := os.Getenv("QRGEN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QRGEN_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// Validate checks the settings that cannot be checked per target. URLs and
// colors are validated during generation so one bad target does not block
// the other.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	switch strings.ToLower(c.Recovery) {
	case "", "low", "l", "medium", "m", "high", "q", "highest", "h":
	default:
		return fmt.Errorf("recovery must be one of low, medium, high, highest; got %q", c.Recovery)
	}
	switch c.LogFormat {
	case "", "text", "json", "pretty":
	default:
		return fmt.Errorf("log_format must be text, json or pretty; got %q", c.LogFormat)
	}
	if c.Size > 4096 || c.Size < -100 {
		return fmt.Errorf("size %d out of range [-100, 4096]", c.Size)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// HistoryPath returns the SQLite file used for run history.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// EnsureDataDir creates the DataDir if it does not already exist.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", c.DataDir, err)
	}
	return nil
}
