package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/adtrail/adtrail/pkg/middleware"
	"github.com/adtrail/adtrail/pkg/openapi"
	"github.com/adtrail/adtrail/pkg/pagination"
)

const (
	EnvAPIBasePath    = "ADTRAIL_API_BASE_PATH"
	EnvAPIMaxListSize = "ADTRAIL_API_MAX_LIST_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "ADTRAIL_CORS_ENABLED",
	Origins:          "ADTRAIL_CORS_ORIGINS",
	AllowedMethods:   "ADTRAIL_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "ADTRAIL_CORS_ALLOWED_HEADERS",
	AllowCredentials: "ADTRAIL_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "ADTRAIL_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:  "ADTRAIL_AUTH_ENABLED",
	Issuer:   "ADTRAIL_AUTH_ISSUER",
	ClientID: "ADTRAIL_AUTH_CLIENT_ID",
}

var paginationEnv = &pagination.ConfigEnv{
	PageSize:  "ADTRAIL_API_PAGE_SIZE",
	MaxOffset: "ADTRAIL_API_MAX_OFFSET",
}

var docsEnv = &openapi.ConfigEnv{
	Title:       "ADTRAIL_DOCS_TITLE",
	Description: "ADTRAIL_DOCS_DESCRIPTION",
}

// APIConfig holds HTTP API surface settings. MaxListSize caps one page of
// the admin asset listing.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxListSize int32                 `toml:"max_list_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Auth        middleware.AuthConfig `toml:"auth"`
	Pagination  pagination.Config     `toml:"pagination"`
	Docs        openapi.Config        `toml:"docs"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *APIConfig) Finalize() error {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxListSize <= 0 {
		c.MaxListSize = 50
	}
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxListSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxListSize = int32(n)
		}
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Docs.Finalize(docsEnv); err != nil {
		return fmt.Errorf("docs: %w", err)
	}
	return nil
}

// Merge overwrites fields from overlay across all sub-configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxListSize > 0 {
		c.MaxListSize = overlay.MaxListSize
	}
	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.Pagination.Merge(&overlay.Pagination)
	c.Docs.Merge(&overlay.Docs)
}
