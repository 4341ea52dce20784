// Package pagination provides the fixed-size page model for the read path.
package pagination

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds pagination settings. PageSize is the fixed number of rows
// returned per page; MaxOffset caps how deep a client may page.
type Config struct {
	PageSize  int `toml:"page_size"`
	MaxOffset int `toml:"max_offset"`
}

// ConfigEnv maps environment variable names for pagination configuration.
type ConfigEnv struct {
	PageSize  string
	MaxOffset string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.PageSize != 0 {
		c.PageSize = overlay.PageSize
	}
	if overlay.MaxOffset != 0 {
		c.MaxOffset = overlay.MaxOffset
	}
}

func (c *Config) loadDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = 20
	}
	if c.MaxOffset <= 0 {
		c.MaxOffset = 1000
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if env.PageSize != "" {
		if v := os.Getenv(env.PageSize); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.PageSize = n
			}
		}
	}
	if env.MaxOffset != "" {
		if v := os.Getenv(env.MaxOffset); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxOffset = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be positive")
	}
	if c.MaxOffset < 0 {
		return fmt.Errorf("max_offset must not be negative")
	}
	return nil
}
