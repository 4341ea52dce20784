package ads

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/text/language"

	"github.com/adtrail/adtrail/pkg/handlers"
	"github.com/adtrail/adtrail/pkg/pagination"
	"github.com/adtrail/adtrail/pkg/routes"
)

// Supported submission languages; unmatched Accept-Language headers fall
// back to the first entry.
var supportedLangs = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("de-DE"),
}

var langMatcher = language.NewMatcher(supportedLangs)

// Handler provides HTTP endpoints for ad operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "ads"),
	}
}

// Routes returns the route group for ad endpoints. admin wraps the
// suppression and single-record endpoints, which are not public surface.
func (h *Handler) Routes(admin func(http.Handler) http.Handler) routes.Group {
	return routes.Group{
		Prefix: "/ads",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Submit},
			{Method: "GET", Pattern: "", Handler: h.Search},
			{Method: "GET", Pattern: "/{id}", Handler: wrap(admin, h.Find)},
			{Method: "POST", Pattern: "/{id}/suppress", Handler: wrap(admin, h.Suppress)},
		},
	}
}

// Submit ingests one observation of an ad. The record's language is
// negotiated from the Accept-Language header.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidSubmission)
		return
	}

	ad, err := h.sys.Submit(r.Context(), sub, requestLang(r))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ad)
}

// Search returns one page of visible ads for a language with optional
// free-text search. Recognized query parameters: lang, search, page.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = requestLang(r)
	}

	page := pagination.FromQuery(r.URL.Query())

	ads, err := h.sys.Search(r.Context(), lang, page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ads)
}

// Find returns a single ad by id, including suppressed records.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	ad, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ad)
}

// Suppress hides an ad from the read path. Idempotent.
func (h *Handler) Suppress(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Suppress(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "suppressed"})
}

func requestLang(r *http.Request) string {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return supportedLangs[0].String()
	}

	_, idx, _ := langMatcher.Match(tags...)
	return supportedLangs[idx].String()
}

func wrap(mw func(http.Handler) http.Handler, fn http.HandlerFunc) http.HandlerFunc {
	if mw == nil {
		return fn
	}
	return mw(fn).ServeHTTP
}
