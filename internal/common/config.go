package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for portfel
type Config struct {
	Environment string        `toml:"environment"`
	Logging     LoggingConfig `toml:"logging"`
	Clients     ClientsConfig `toml:"clients"`
	Cache       CacheConfig   `toml:"cache"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	NBP NBPConfig `toml:"nbp"`
}

// NBPConfig holds NBP Web API configuration
type NBPConfig struct {
	BaseURL   string `toml:"base_url"`
	Table     string `toml:"table"` // rate table series, "a" = mid rates
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NBPConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// CacheConfig holds the on-disk rate cache snapshot configuration.
// TTL and version checks follow the snapshot store, not the in-memory
// cache, which never expires within a process.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	TTL     string `toml:"ttl"`
}

// GetTTL parses and returns the snapshot TTL duration
func (c *CacheConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return d
}

// NewDefaultConfig returns a config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level: "info",
		},
		Clients: ClientsConfig{
			NBP: NBPConfig{
				BaseURL:   "https://api.nbp.pl/api",
				Table:     "a",
				RateLimit: 5,
				Timeout:   "30s",
			},
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    "data/rates",
			TTL:     "168h",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PORTFEL_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("PORTFEL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if url := os.Getenv("PORTFEL_NBP_BASE_URL"); url != "" {
		config.Clients.NBP.BaseURL = url
	}

	if table := os.Getenv("PORTFEL_NBP_TABLE"); table != "" {
		config.Clients.NBP.Table = table
	}

	if limit := os.Getenv("PORTFEL_NBP_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			config.Clients.NBP.RateLimit = n
		}
	}

	if path := os.Getenv("PORTFEL_CACHE_PATH"); path != "" {
		config.Cache.Path = path
		config.Cache.Enabled = true
	}
}
