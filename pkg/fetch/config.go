package fetch

import (
	"fmt"
	"os"
	"time"

	"github.com/adtrail/adtrail/pkg/formatting"
)

// Config holds HTTP fetch parameters. MaxBodySize is a human-readable byte
// size (e.g. "10MB") capping any single response body.
type Config struct {
	Timeout     string `toml:"timeout"`
	MaxBodySize string `toml:"max_body_size"`
	UserAgent   string `toml:"user_agent"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Timeout     string
	MaxBodySize string
	UserAgent   string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxBodyBytes returns MaxBodySize as a byte count.
func (c *Config) MaxBodyBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 10 << 20
	}
	return size
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
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "20s"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "10MB"
	}
	if c.UserAgent == "" {
		c.UserAgent = "adtrail/1.0"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.MaxBodySize != "" {
		if v := os.Getenv(env.MaxBodySize); v != "" {
			c.MaxBodySize = v
		}
	}
	if env.UserAgent != "" {
		if v := os.Getenv(env.UserAgent); v != "" {
			c.UserAgent = v
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if size < 1 {
		return fmt.Errorf("max_body_size must be positive")
	}

	return nil
}
