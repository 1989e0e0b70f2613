// Package config loads the application configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DataConfig points at the company catalog file.
type DataConfig struct {
	CSVPath string `yaml:"csv_path"`
	Watch   bool   `yaml:"watch"`
}

// EmbedderConfig selects and configures the embedding backend.
type EmbedderConfig struct {
	Type      string `yaml:"type"` // "ollama" or "openai"
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	Dimension int    `yaml:"dimension"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// ExtractorConfig configures the extractive QA backend.
type ExtractorConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// StoreConfig selects and configures the passage store backend.
type StoreConfig struct {
	Type string `yaml:"type"` // "sqlite", "postgres" or "memory"
	Path string `yaml:"path"` // sqlite data directory
	DSN  string `yaml:"dsn"`  // postgres connection string
}

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Store     StoreConfig     `yaml:"store"`
}

// Load reads a config from the given path. A missing file yields defaults.
// Environment variables in the file are expanded before parsing, so DSNs
// can reference secrets without inlining them.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints the YAML schema cannot express.
func (c *Config) Validate() error {
	switch c.Embedder.Type {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unknown embedder type %q", c.Embedder.Type)
	}
	switch c.Store.Type {
	case "sqlite", "memory":
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store type postgres requires a dsn")
		}
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	if c.Embedder.Dimension <= 0 {
		return fmt.Errorf("embedder dimension must be positive, got %d", c.Embedder.Dimension)
	}
	return nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Data.CSVPath == "" {
		cfg.Data.CSVPath = "data.csv"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "ollama"
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 384
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "sqlite"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./data"
	}
}
