package ai

import (
	"fmt"
	"os"
	"time"
)

// Backend names accepted by Config.Primary.
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"
)

// BackendConfig holds credentials and model selection for one backend.
type BackendConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// Configured reports whether this backend has credentials.
func (c *BackendConfig) Configured() bool {
	return c.APIKey != ""
}

// Merge overwrites non-zero fields from overlay.
func (c *BackendConfig) Merge(overlay *BackendConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
}

// Config holds AI backend selection, credentials, and call timeout.
type Config struct {
	Primary string        `toml:"primary"`
	Timeout string        `toml:"timeout"`
	Gemini  BackendConfig `toml:"gemini"`
	OpenAI  BackendConfig `toml:"openai"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Primary       string
	Timeout       string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
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

// Merge overwrites non-zero fields from overlay across nested backend configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.Primary != "" {
		c.Primary = overlay.Primary
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	c.Gemini.Merge(&overlay.Gemini)
	c.OpenAI.Merge(&overlay.OpenAI)
}

func (c *Config) loadDefaults() {
	if c.Primary == "" {
		c.Primary = BackendGemini
	}
	if c.Timeout == "" {
		c.Timeout = "45s"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
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

	setIf(&c.Primary, env.Primary)
	setIf(&c.Timeout, env.Timeout)
	setIf(&c.Gemini.APIKey, env.GeminiAPIKey)
	setIf(&c.Gemini.Model, env.GeminiModel)
	setIf(&c.Gemini.BaseURL, env.GeminiBaseURL)
	setIf(&c.OpenAI.APIKey, env.OpenAIAPIKey)
	setIf(&c.OpenAI.Model, env.OpenAIModel)
	setIf(&c.OpenAI.BaseURL, env.OpenAIBaseURL)
}

func (c *Config) validate() error {
	if c.Primary != BackendGemini && c.Primary != BackendOpenAI {
		return fmt.Errorf("invalid primary backend: %q", c.Primary)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
