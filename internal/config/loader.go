package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Load reads a YAML config file and overlays it on DefaultConfig. Fields
// absent from the file keep their defaults. If path is empty, defaults are
// returned as-is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("max_redirects must not be negative, got %d", c.MaxRedirects)
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("rate_limit_max must be positive, got %d", c.RateLimitMax)
	}
	if c.FetchTimeout <= 0 || c.RobotsTimeout <= 0 {
		return errors.New("fetch_timeout and robots_timeout must be positive")
	}
	return nil
}
