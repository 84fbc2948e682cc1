package ocr

import (
	"fmt"
	"os"
	"time"
)

// Config holds Azure Document Intelligence connection parameters.
type Config struct {
	Endpoint     string `toml:"endpoint"`
	APIKey       string `toml:"api_key"`
	APIVersion   string `toml:"api_version"`
	PollInterval string `toml:"poll_interval"`
	PollTimeout  string `toml:"poll_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint     string
	APIKey       string
	APIVersion   string
	PollInterval string
	PollTimeout  string
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *Config) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// PollTimeoutDuration returns PollTimeout as a time.Duration.
func (c *Config) PollTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.PollTimeout != "" {
		c.PollTimeout = overlay.PollTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.APIVersion == "" {
		c.APIVersion = "2024-11-30"
	}
	if c.PollInterval == "" {
		c.PollInterval = "2s"
	}
	if c.PollTimeout == "" {
		c.PollTimeout = "3m"
	}
}

func (c *Config) loadEnv(env *Env) {
	setIf := func(target *string, envVar string) {
		if envVar != "" {
			if v := os.Getenv(envVar); v != "" {
				*target = v
			}
		}
	}

	setIf(&c.Endpoint, env.Endpoint)
	setIf(&c.APIKey, env.APIKey)
	setIf(&c.APIVersion, env.APIVersion)
	setIf(&c.PollInterval, env.PollInterval)
	setIf(&c.PollTimeout, env.PollTimeout)
}

func (c *Config) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("api_key required")
	}
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.PollTimeout); err != nil {
		return fmt.Errorf("invalid poll_timeout: %w", err)
	}
	return nil
}
