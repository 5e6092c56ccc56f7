// Package config holds runtime configuration for the sitegauge service.
package config

import (
	"time"
)

// Config contains every tunable of the scan pipeline and the HTTP server.
// Zero values are filled in from DefaultConfig; a YAML file or flags may
// override individual fields.
type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string `yaml:"listen_addr"`

	// UserAgent identifies the scanner on every outbound request so target
	// sites can recognize and, if desired, block it via robots.txt.
	UserAgent string `yaml:"user_agent"`

	// FetchTimeout bounds the page fetch, connect included.
	FetchTimeout Duration `yaml:"fetch_timeout"`

	// RobotsTimeout bounds the robots.txt fetch.
	RobotsTimeout Duration `yaml:"robots_timeout"`

	// MaxBodyBytes is the page body ceiling; crossing it aborts the fetch.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// MaxRobotsBytes caps how much of robots.txt is read (truncation is
	// non-fatal).
	MaxRobotsBytes int64 `yaml:"max_robots_bytes"`

	// MaxRedirects is the redirect budget of the fetch pipeline.
	MaxRedirects int `yaml:"max_redirects"`

	// CacheTTL is how long a scan result stays fresh.
	CacheTTL Duration `yaml:"cache_ttl"`

	// CacheSweepInterval is how often expired entries are dropped. Zero
	// disables the sweeper (lazy expiry only).
	CacheSweepInterval Duration `yaml:"cache_sweep_interval"`

	// RateLimitMax is the accepted request count per identity per window.
	RateLimitMax int `yaml:"rate_limit_max"`

	// RateLimitWindow is the trailing rate-limit window.
	RateLimitWindow Duration `yaml:"rate_limit_window"`
}

// DefaultConfig returns a Config populated with production defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr:         ":8080",
		UserAgent:          "SitegaugeBot/1.0 (+https://sitegauge.dev/bot)",
		FetchTimeout:       Duration(5 * time.Second),
		RobotsTimeout:      Duration(3 * time.Second),
		MaxBodyBytes:       1 << 20, // 1 MiB
		MaxRobotsBytes:     200 << 10,
		MaxRedirects:       1,
		CacheTTL:           Duration(30 * time.Minute),
		CacheSweepInterval: Duration(10 * time.Minute),
		RateLimitMax:       3,
		RateLimitWindow:    Duration(time.Hour),
	}
}
