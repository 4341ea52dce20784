package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/adtrail/adtrail/pkg/handlers"
	"github.com/adtrail/adtrail/pkg/routes"
	"github.com/adtrail/adtrail/pkg/storage"
)

// assetsHandler exposes the rehomed image store for inspection. All routes
// are admin surface; the public read path serves assets straight from the
// store's canonical endpoint.
type assetsHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newAssetsHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
) *assetsHandler {
	return &assetsHandler{
		store:       store,
		logger:      logger.With("handler", "assets"),
		maxListSize: maxListSize,
	}
}

func (h *assetsHandler) routes(admin func(http.Handler) http.Handler) routes.Group {
	return routes.Group{
		Prefix: "/assets",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: wrap(admin, h.list)},
			{Method: "GET", Pattern: "/download/{key...}", Handler: wrap(admin, h.download)},
			{Method: "GET", Pattern: "/{key...}", Handler: wrap(admin, h.find)},
		},
	}
}

func (h *assetsHandler) list(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	marker := r.URL.Query().Get("marker")

	maxResults, err := storage.ParseMaxResults(
		r.URL.Query().Get("max_results"),
		h.maxListSize,
	)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusBadRequest, err,
		)
		return
	}

	result, err := h.store.List(
		r.Context(),
		prefix,
		marker,
		maxResults,
	)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			http.StatusInternalServerError, err,
		)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *assetsHandler) find(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	info, err := h.store.Find(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, info)
}

func (h *assetsHandler) download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(
			w, h.logger,
			storage.MapHTTPStatus(err), err,
		)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)

	if result.ContentLength > 0 {
		w.Header().Set(
			"Content-Length",
			strconv.FormatInt(result.ContentLength, 10),
		)
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, result.Body)
}
