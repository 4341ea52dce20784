// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/adtrail/adtrail/internal/config"
	"github.com/adtrail/adtrail/internal/infrastructure"
	"github.com/adtrail/adtrail/pkg/middleware"
	"github.com/adtrail/adtrail/pkg/module"
	"github.com/adtrail/adtrail/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	verifier, err := middleware.NewVerifier(runtime.Lifecycle.Context(), &cfg.API.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime, middleware.Auth(verifier))

	specBytes, err := openapi.MarshalJSON(buildSpec(&cfg.API.Docs, cfg.API.BasePath, cfg.Version))
	if err != nil {
		return nil, fmt.Errorf("spec serialization failed: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
