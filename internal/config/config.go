// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alienxp03/botsleuth/internal/provider"
)

// Config represents the application configuration.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Provider ProviderConfig `yaml:"provider"`
	Server   ServerConfig   `yaml:"server,omitempty"`
}

// DefaultsConfig holds default evaluation settings.
type DefaultsConfig struct {
	Protocol    string  `yaml:"protocol"`
	Temperature float64 `yaml:"temperature"`
	Workers     int     `yaml:"workers"` // 0 = number of CPUs
	Format      string  `yaml:"dataset_format"`
	DatasetPath string  `yaml:"dataset_path"`
	Limit       int     `yaml:"limit"` // 0 = whole dataset
}

// ProviderConfig holds completion backend settings.
type ProviderConfig struct {
	Name       string        `yaml:"name"` // openai or mock
	BaseURL    string        `yaml:"base_url,omitempty"`
	APIKey     string        `yaml:"api_key,omitempty"` // usually supplied via env
	Model      string        `yaml:"model"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	MaxRetries int           `yaml:"max_retries,omitempty"`
}

// ServerConfig holds server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Protocol:    "simple",
			Temperature: 0.5,
			Workers:     0,
			Format:      "flat",
			DatasetPath: "dataset.csv",
		},
		Provider: ProviderConfig{
			Name:       "openai",
			Model:      "gpt-3.5-turbo",
			Timeout:    2 * time.Minute,
			MaxRetries: 2,
		},
		Server: ServerConfig{
			Port: 8183,
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from a specific path, then applies .env
// and environment variable overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file, proceed with defaults
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Load .env into the process environment if present, then apply
	// environment overrides on top of the file values.
	_ = godotenv.Load()
	ApplyEnvOverrides(cfg)

	return cfg, nil
}

// ApplyEnvOverrides updates the configuration from environment
// variables. Variable names match the original deployment convention.
func ApplyEnvOverrides(cfg *Config) {
	if val := os.Getenv("API_KEY"); val != "" {
		cfg.Provider.APIKey = val
	}
	if val := os.Getenv("API_BASE_URL"); val != "" {
		cfg.Provider.BaseURL = val
	}
	if val := os.Getenv("MODEL_NAME"); val != "" {
		cfg.Provider.Model = val
	}
	if val := os.Getenv("PROVIDER"); val != "" {
		cfg.Provider.Name = val
	}
	if val := os.Getenv("TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Defaults.Temperature = f
		}
	}
	if val := os.Getenv("PROTOCOL"); val != "" {
		cfg.Defaults.Protocol = val
	}
	if val := os.Getenv("MAX_WORKERS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Defaults.Workers = n
		}
	}
	if val := os.Getenv("DATASET_PATH"); val != "" {
		cfg.Defaults.DatasetPath = val
	}
	if val := os.Getenv("DATASET_FORMAT"); val != "" {
		cfg.Defaults.Format = val
	}
	if val := os.Getenv("LIMIT_SAMPLES_DATASET"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Defaults.Limit = n
		}
	}
	if val := os.Getenv("PROVIDER_TIMEOUT"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil {
			cfg.Provider.Timeout = time.Duration(seconds) * time.Second
		} else if duration, err := time.ParseDuration(val); err == nil {
			cfg.Provider.Timeout = duration
		}
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = port
		}
	}
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// CreateProvider creates the configured completion provider.
func (c *Config) CreateProvider() (provider.Provider, error) {
	switch c.Provider.Name {
	case "openai", "":
		if c.Provider.APIKey == "" {
			return nil, fmt.Errorf("API key is required (set API_KEY or provider.api_key)")
		}
		return provider.NewOpenAI(provider.Config{
			Name:       "openai",
			BaseURL:    c.Provider.BaseURL,
			APIKey:     c.Provider.APIKey,
			Model:      c.Provider.Model,
			Timeout:    c.Provider.Timeout,
			MaxRetries: c.Provider.MaxRetries,
		}), nil
	case "mock":
		return provider.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", c.Provider.Name)
	}
}

// CreateRegistry builds a registry holding every provider the current
// configuration can construct. The mock provider is always available;
// the OpenAI-compatible provider requires an API key.
func (c *Config) CreateRegistry() *provider.Registry {
	registry := provider.NewRegistry()
	registry.Register(provider.NewMockProvider())

	if c.Provider.APIKey != "" {
		registry.Register(provider.NewOpenAI(provider.Config{
			Name:       "openai",
			BaseURL:    c.Provider.BaseURL,
			APIKey:     c.Provider.APIKey,
			Model:      c.Provider.Model,
			Timeout:    c.Provider.Timeout,
			MaxRetries: c.Provider.MaxRetries,
		}))
	}

	return registry
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "botsleuth.yaml"
	}
	return filepath.Join(home, ".botsleuth", "config.yaml")
}

// GenerateExample generates an example configuration file.
func GenerateExample() string {
	example := `# botsleuth configuration file
# Place this file at ~/.botsleuth/config.yaml

defaults:
  protocol: simple          # Debate protocol: simple (3 calls) or critique (5 calls)
  temperature: 0.5          # Sampling temperature for all calls
  workers: 0                # Parallel accounts (0 = number of CPUs)
  dataset_format: flat      # Dataset shape: flat or rich
  dataset_path: dataset.csv
  limit: 0                  # Max accounts to evaluate (0 = all)

provider:
  name: openai              # openai (any OpenAI-compatible endpoint) or mock
  base_url: ""              # Empty = https://api.openai.com
  model: gpt-3.5-turbo
  timeout: 2m
  max_retries: 2            # Retries after throttled/transient failures

server:
  port: 8183

# The API key is read from the API_KEY environment variable or a .env
# file in the working directory.
`
	return example
}
