package classifications

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/internal/audit"
	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/pkg/handlers"
	"github.com/asklokesh/ebt/pkg/pagination"
	"github.com/asklokesh/ebt/pkg/routes"
)

// Handler provides HTTP endpoints for classification operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "classifications"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for classification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/classifications",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Classify},
			{Method: "POST", Pattern: "/bulk", Handler: h.Bulk},
			{Method: "GET", Pattern: "/product/{productId}", Handler: h.FindByProduct},
			{Method: "GET", Pattern: "/{auditId}", Handler: h.Find},
			{Method: "GET", Pattern: "/{auditId}/explain", Handler: h.Explain},
		},
	}
}

// List returns a paginated list of classifications with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Classify runs the pipeline for the product in the request body. The
// force_reprocess query parameter bypasses the cache.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var product products.Attributes
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	force := false
	if s := r.URL.Query().Get("force_reprocess"); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			force = v
		}
	}

	c, err := h.sys.Classify(r.Context(), product, audit.SourceAPI, force)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// Bulk classifies a batch of products under bounded concurrency.
func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Bulk(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single classification by its audit id path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	auditID, err := uuid.Parse(r.PathValue("auditId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	c, err := h.sys.Find(r.Context(), auditID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// FindByProduct returns the latest classification for a product id.
func (h *Handler) FindByProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	c, err := h.sys.FindByProduct(r.Context(), productID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Explain returns the full decision breakdown for an audit id.
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	auditID, err := uuid.Parse(r.PathValue("auditId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	explanation, err := h.sys.Explain(r.Context(), auditID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, explanation)
}
