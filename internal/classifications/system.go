package classifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/internal/audit"
	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/pkg/pagination"
)

// System defines the public contract for classification domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Classification], error)

	Find(ctx context.Context, auditID uuid.UUID) (*Classification, error)

	// FindByProduct returns the most recent classification for a product,
	// which is the cache entry Classify consults.
	FindByProduct(ctx context.Context, productID string) (*Classification, error)

	// Classify runs the pipeline for one product. With force false, an
	// existing result for the product id is returned unchanged.
	Classify(ctx context.Context, product products.Attributes, source audit.Source, force bool) (*Classification, error)

	// Bulk fans Classify out over a batch under bounded concurrency.
	Bulk(ctx context.Context, req BulkRequest) (*BulkResult, error)

	Explain(ctx context.Context, auditID uuid.UUID) (*Explanation, error)
}
