package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// EnvAPIKey is the environment variable that overrides the configured API key.
const EnvAPIKey = "PIXELDRAIN_API_KEY"

// Config represents the main application configuration
type Config struct {
	APIKey            string `toml:"api_key"`
	DownloadDirectory string `toml:"download_directory"`
	Loglevel          string `toml:"loglevel"`
}

// Credentials is the optional API key passed explicitly into every client
// call. It is constructed once at process start; deeper layers never read
// the environment themselves.
type Credentials struct {
	APIKey string
}

// Present reports whether an API key is configured.
func (c Credentials) Present() bool {
	return c.APIKey != ""
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		DownloadDirectory: "/tmp",
		Loglevel:          "info",
	}
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "gopixeldrain", "config.toml"), nil
}

// Load loads configuration from a TOML file and applies the environment
// override for the API key. A missing config file is not an error: the
// client works anonymously for downloads and info queries.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// anonymous use, env override may still apply
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.APIKey = key
	}

	return cfg, nil
}

// Credentials returns the credentials value derived from the configuration.
func (c *Config) Credentials() Credentials {
	return Credentials{APIKey: c.APIKey}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DownloadDirectory == "" {
		return fmt.Errorf("download_directory is required")
	}
	if _, err := logrus.ParseLevel(c.Loglevel); err != nil {
		return fmt.Errorf("loglevel must be one of: panic, fatal, error, warn, info, debug, trace")
	}
	return nil
}
