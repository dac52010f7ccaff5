package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override the Podcast Index credentials in the config file.
const (
	EnvAPIKey    = "PODX_API_KEY"
	EnvAPISecret = "PODX_API_SECRET"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database     DatabaseConfig     `toml:"database"`
	PodcastIndex PodcastIndexConfig `toml:"podcastindex"`
	Cache        CacheConfig        `toml:"cache"`
	Refresh      RefreshConfig      `toml:"refresh"`
	Logging      LoggingConfig      `toml:"logging"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PodcastIndexConfig contains the podcast directory API settings.
type PodcastIndexConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	APISecret      string `toml:"api_secret"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxResults     int    `toml:"max_results"`
}

// CacheConfig contains response cache settings. An empty path keeps the cache in memory.
type CacheConfig struct {
	Path       string `toml:"path"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

// RefreshConfig contains settings for the background episode refresh.
type RefreshConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// HasCredentials reports whether both the API key and secret are set.
func (c PodcastIndexConfig) HasCredentials() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ApplyEnv overrides credentials with values from the environment when present.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.PodcastIndex.APIKey = v
	}
	if v := os.Getenv(EnvAPISecret); v != "" {
		c.PodcastIndex.APISecret = v
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
