package regulations

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/asklokesh/ebt/pkg/handlers"
	"github.com/asklokesh/ebt/pkg/routes"
)

// MaxSearchResults caps the k parameter on the search endpoint.
const MaxSearchResults = 20

// Handler provides HTTP endpoints for regulation search.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "regulations"),
	}
}

// Routes returns the route group definition for regulation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/regulations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/search", Handler: h.Search},
		},
	}
}

// Search performs semantic search over the regulation corpus.
// Query parameters: q (required), k, doc_type, min_relevance.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyQuery)
		return
	}

	k, _ := strconv.Atoi(r.URL.Query().Get("k"))
	if k <= 0 {
		k = DefaultTopK
	}
	if k > MaxSearchResults {
		k = MaxSearchResults
	}

	minRelevance, _ := strconv.ParseFloat(r.URL.Query().Get("min_relevance"), 64)
	docType := r.URL.Query().Get("doc_type")

	passages, err := h.sys.Search(r.Context(), q, k, docType, minRelevance)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": passages,
	})
}
