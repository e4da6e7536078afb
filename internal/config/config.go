package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Mk7214/ffconvertTui/internal/formats"
)

// Config represents the application configuration
type Config struct {
	FFmpegPath      string `yaml:"ffmpeg_path"`
	OutputDirectory string `yaml:"output_directory"`
	DefaultFormat   string `yaml:"default_format"`
	KeepAudio       bool   `yaml:"keep_audio"`
	LogFile         string `yaml:"log_file"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		FFmpegPath:    "ffmpeg",
		DefaultFormat: formats.Default.String(),
		KeepAudio:     true,
	}
}

// DefaultPath returns <user config dir>/ffconvert/config.yaml
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("config", "config.yaml")
	}
	return filepath.Join(dir, "ffconvert", "config.yaml")
}

// Load reads and parses the configuration from the specified YAML file.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads path, returning defaults when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be defaulted silently
func (c *Config) Validate() error {
	if c.FFmpegPath == "" {
		return fmt.Errorf("ffmpeg_path must not be empty")
	}
	if _, err := formats.Parse(c.DefaultFormat); err != nil {
		return fmt.Errorf("invalid default_format: %w", err)
	}
	return nil
}

// Format returns the configured default format
func (c *Config) Format() formats.Format {
	f, err := formats.Parse(c.DefaultFormat)
	if err != nil {
		return formats.Default
	}
	return f
}
