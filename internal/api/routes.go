package api

import (
	"net/http"

	"github.com/adtrail/adtrail/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
	admin func(http.Handler) http.Handler,
) {
	assets := newAssetsHandler(
		runtime.Storage,
		runtime.Logger,
		runtime.MaxListSize,
	)

	routes.Register(
		mux,
		domain.Ads.Handler().Routes(admin),
		assets.routes(admin),
	)
}

func wrap(mw func(http.Handler) http.Handler, fn http.HandlerFunc) http.HandlerFunc {
	if mw == nil {
		return fn
	}
	return mw(fn).ServeHTTP
}
