package classifications

import (
	"errors"
	"net/http"

	"github.com/asklokesh/ebt/internal/products"
)

// Domain errors for classification operations.
var (
	ErrNotFound  = errors.New("classification not found")
	ErrDuplicate = errors.New("classification already exists")
	ErrEmptyBulk = errors.New("bulk request contains no products")
	ErrBulkLimit = errors.New("bulk request exceeds product limit")
)

// MapHTTPStatus maps classification domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, products.ErrInvalid) ||
		errors.Is(err, ErrEmptyBulk) ||
		errors.Is(err, ErrBulkLimit) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
