// Package config provides layered service configuration: TOML base file,
// environment overlay file, and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/adtrail/adtrail/pkg/database"
	"github.com/adtrail/adtrail/pkg/fetch"
	"github.com/adtrail/adtrail/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvAdtrailEnv             = "ADTRAIL_ENV"
	EnvAdtrailShutdownTimeout = "ADTRAIL_SHUTDOWN_TIMEOUT"
	EnvAdtrailVersion         = "ADTRAIL_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "ADTRAIL_DB_HOST",
	Port:            "ADTRAIL_DB_PORT",
	Name:            "ADTRAIL_DB_NAME",
	User:            "ADTRAIL_DB_USER",
	Password:        "ADTRAIL_DB_PASSWORD",
	SSLMode:         "ADTRAIL_DB_SSL_MODE",
	MaxOpenConns:    "ADTRAIL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ADTRAIL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ADTRAIL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ADTRAIL_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "ADTRAIL_STORAGE_CONTAINER_NAME",
	ConnectionString: "ADTRAIL_STORAGE_CONNECTION_STRING",
	AccountURL:       "ADTRAIL_STORAGE_ACCOUNT_URL",
	PublicEndpoint:   "ADTRAIL_STORAGE_PUBLIC_ENDPOINT",
}

var fetchEnv = &fetch.Env{
	Timeout:     "ADTRAIL_FETCH_TIMEOUT",
	MaxBodySize: "ADTRAIL_FETCH_MAX_BODY_SIZE",
	UserAgent:   "ADTRAIL_FETCH_USER_AGENT",
}

// Config is the root configuration for the adtrail service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Fetch           fetch.Config    `toml:"fetch"`
	Pipeline        PipelineConfig  `toml:"pipeline"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the ADTRAIL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAdtrailEnv); env != "" {
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
	c.Fetch.Merge(&overlay.Fetch)
	c.Pipeline.Merge(&overlay.Pipeline)
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
	if err := c.Fetch.Finalize(fetchEnv); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if err := c.Pipeline.Finalize(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
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
	if v := os.Getenv(EnvAdtrailShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvAdtrailVersion); v != "" {
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
	if env := os.Getenv(EnvAdtrailEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
