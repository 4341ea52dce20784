package api

import (
	"github.com/adtrail/adtrail/internal/config"
	"github.com/adtrail/adtrail/internal/infrastructure"
	"github.com/adtrail/adtrail/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination  pagination.Config
	Pipeline    config.PipelineConfig
	MaxListSize int32
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Fetcher:   infra.Fetcher,
			Workers:   infra.Workers,
		},
		Pagination:  cfg.API.Pagination,
		Pipeline:    cfg.Pipeline,
		MaxListSize: cfg.API.MaxListSize,
	}
}
