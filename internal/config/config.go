// Package config defines console configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers .env, an optional YAML file and RPA_* env vars on top.
// - Validation failures wrap ErrInvalidConfig; source failures wrap ErrLoadConfig.
package config

import (
	"fmt"
	"net/url"
	"runtime"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr is the console listen address, e.g. ":5173".
	Addr string `koanf:"addr"`

	// Origin is where clients reach the console; the API base is resolved
	// against it.
	Origin string `koanf:"origin"`

	// APIBase is the path prefix the backend API is mounted under.
	APIBase string `koanf:"api_base"`

	// BackendURL is the origin the development proxy forwards APIBase to.
	BackendURL string `koanf:"backend_url"`

	// DefaultLimit is used by recent-log queries when no limit is given.
	DefaultLimit int `koanf:"default_limit"`

	// ProbeWorkers bounds concurrent probe checks.
	ProbeWorkers int `koanf:"probe_workers"`

	// ProbeRepeat is how many times each probe check is issued.
	ProbeRepeat int `koanf:"probe_repeat"`

	// ProbeTaskIDs are task ids fetched by the probe.
	ProbeTaskIDs []string `koanf:"probe_task_ids"`
}

// New creates a Config with defaults matching the development setup.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":5173",
		Origin:       "http://localhost:5173",
		APIBase:      "/api",
		BackendURL:   "http://localhost:8080/rpa-ai",
		DefaultLimit: 20,
		ProbeWorkers: runtime.NumCPU(),
		ProbeRepeat:  2,
	}
}

// APIURL returns Origin joined with APIBase.
func (c *Config) APIURL() string {
	return strings.TrimRight(c.Origin, "/") + "/" + strings.Trim(c.APIBase, "/")
}

// BackendAPIURL is where APIBase ends up once proxied: BackendURL joined
// with APIBase.
func (c *Config) BackendAPIURL() string {
	return strings.TrimRight(c.BackendURL, "/") + "/" + strings.Trim(c.APIBase, "/")
}

// Validate checks the fields every binary depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.APIBase, "/") {
		return fmt.Errorf("%w: api_base must start with /", ErrInvalidConfig)
	}
	for key, raw := range map[string]string{"origin": c.Origin, "backend_url": c.BackendURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute URL, got %q", ErrInvalidConfig, key, raw)
		}
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("%w: default_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
