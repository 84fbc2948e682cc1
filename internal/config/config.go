// Package config loads service configuration from TOML files with
// environment overlays and MDPA_-prefixed environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/ai"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/ocr"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/database"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvMDPAEnv             = "MDPA_ENV"
	EnvMDPAShutdownTimeout = "MDPA_SHUTDOWN_TIMEOUT"
	EnvMDPAVersion         = "MDPA_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "MDPA_DB_HOST",
	Port:            "MDPA_DB_PORT",
	Name:            "MDPA_DB_NAME",
	User:            "MDPA_DB_USER",
	Password:        "MDPA_DB_PASSWORD",
	SSLMode:         "MDPA_DB_SSL_MODE",
	MaxOpenConns:    "MDPA_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "MDPA_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "MDPA_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "MDPA_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "MDPA_STORAGE_CONTAINER_NAME",
	ConnectionString: "MDPA_STORAGE_CONNECTION_STRING",
	SignedURLTTL:     "MDPA_STORAGE_SIGNED_URL_TTL",
}

var aiEnv = &ai.Env{
	Primary:       "MDPA_AI_PRIMARY",
	Timeout:       "MDPA_AI_TIMEOUT",
	GeminiAPIKey:  "MDPA_AI_GEMINI_API_KEY",
	GeminiModel:   "MDPA_AI_GEMINI_MODEL",
	GeminiBaseURL: "MDPA_AI_GEMINI_BASE_URL",
	OpenAIAPIKey:  "MDPA_AI_OPENAI_API_KEY",
	OpenAIModel:   "MDPA_AI_OPENAI_MODEL",
	OpenAIBaseURL: "MDPA_AI_OPENAI_BASE_URL",
}

var ocrEnv = &ocr.Env{
	Endpoint:     "MDPA_OCR_ENDPOINT",
	APIKey:       "MDPA_OCR_API_KEY",
	APIVersion:   "MDPA_OCR_API_VERSION",
	PollInterval: "MDPA_OCR_POLL_INTERVAL",
	PollTimeout:  "MDPA_OCR_POLL_TIMEOUT",
}

// Config is the root configuration for the document processing service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	AI              ai.Config        `toml:"ai"`
	OCR             ocr.Config       `toml:"ocr"`
	Extraction      ExtractionConfig `toml:"extraction"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the MDPA_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvMDPAEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.AI.Merge(&overlay.AI)
	c.OCR.Merge(&overlay.OCR)
	c.Extraction.Merge(&overlay.Extraction)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.AI.Finalize(aiEnv); err != nil {
		return fmt.Errorf("ai: %w", err)
	}
	if err := c.OCR.Finalize(ocrEnv); err != nil {
		return fmt.Errorf("ocr: %w", err)
	}
	if err := c.Extraction.Finalize(); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvMDPAShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvMDPAVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvMDPAEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
