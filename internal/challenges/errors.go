package challenges

import (
	"errors"
	"net/http"

	"github.com/asklokesh/ebt/internal/audit"
	"github.com/asklokesh/ebt/internal/products"
)

var (
	// ErrOriginalNotFound indicates no audit record exists for the
	// challenged audit id.
	ErrOriginalNotFound = errors.New("original classification not found")

	// ErrReasonRequired indicates a challenge was filed without a reason.
	ErrReasonRequired = errors.New("challenge_reason is required")
)

// MapHTTPStatus translates challenge errors into HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrOriginalNotFound),
		errors.Is(err, audit.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrReasonRequired),
		errors.Is(err, products.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
