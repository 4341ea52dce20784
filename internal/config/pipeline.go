package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvPipelineTrustedSuffix = "ADTRAIL_PIPELINE_TRUSTED_SUFFIX"
	EnvPipelineFetchFanout   = "ADTRAIL_PIPELINE_FETCH_FANOUT"
	EnvPipelineWorkers       = "ADTRAIL_PIPELINE_WORKERS"
)

// PipelineConfig holds image pipeline parameters. TrustedSuffix is the
// upstream CDN domain suffix the trust filter accepts; FetchFanout caps
// per-run fetch concurrency; Workers bounds the pool that offloads
// synchronous store and database calls.
type PipelineConfig struct {
	TrustedSuffix string `toml:"trusted_suffix"`
	FetchFanout   int    `toml:"fetch_fanout"`
	Workers       int    `toml:"workers"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.TrustedSuffix != "" {
		c.TrustedSuffix = overlay.TrustedSuffix
	}
	if overlay.FetchFanout != 0 {
		c.FetchFanout = overlay.FetchFanout
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.TrustedSuffix == "" {
		c.TrustedSuffix = "fbcdn.net"
	}
	if c.FetchFanout == 0 {
		c.FetchFanout = 8
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineTrustedSuffix); v != "" {
		c.TrustedSuffix = v
	}
	if v := os.Getenv(EnvPipelineFetchFanout); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FetchFanout = n
		}
	}
	if v := os.Getenv(EnvPipelineWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
}

func (c *PipelineConfig) validate() error {
	if c.TrustedSuffix == "" {
		return fmt.Errorf("trusted_suffix required")
	}
	if c.FetchFanout < 1 {
		return fmt.Errorf("fetch_fanout must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}
