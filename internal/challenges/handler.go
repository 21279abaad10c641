package challenges

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/pkg/handlers"
	"github.com/asklokesh/ebt/pkg/routes"
)

// Handler provides HTTP endpoints for challenge operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "challenges"),
	}
}

// Routes returns the route group definition for challenge endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/challenges",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{auditId}", Handler: h.Challenge},
			{Method: "GET", Pattern: "/product/{productId}", Handler: h.History},
		},
	}
}

// Challenge disputes the classification behind the audit id path parameter.
func (h *Handler) Challenge(w http.ResponseWriter, r *http.Request) {
	auditID, err := uuid.Parse(r.PathValue("auditId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrOriginalNotFound)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	resp, err := h.sys.Challenge(r.Context(), auditID, req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// History returns prior challenges filed against a product id.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productId")
	if productID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrOriginalNotFound)
		return
	}

	records, err := h.sys.History(r.Context(), productID)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}
