package api

import (
	"github.com/adtrail/adtrail/internal/ads"
)

// Domain holds the domain systems that comprise the API.
type Domain struct {
	Ads ads.System
}

// NewDomain creates the domain systems from the API runtime. The image
// pipeline shares the lifecycle context so detached runs observe shutdown,
// and is bound to the ads system after construction because the system both
// launches runs and persists their results.
func NewDomain(runtime *Runtime) *Domain {
	policy := ads.TrustPolicy{
		AssetHost:     runtime.Storage.Host(),
		TrustedSuffix: runtime.Pipeline.TrustedSuffix,
	}

	pipeline := ads.NewPipeline(
		runtime.Lifecycle.Context(),
		runtime.Fetcher,
		runtime.Storage,
		runtime.Workers,
		policy,
		runtime.Pipeline.FetchFanout,
		runtime.Logger,
	)

	adsSystem := ads.New(
		runtime.Database.Connection(),
		pipeline,
		runtime.Logger,
		runtime.Pagination,
	)
	pipeline.Bind(adsSystem)

	return &Domain{
		Ads: adsSystem,
	}
}
