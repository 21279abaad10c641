package challenges

import (
	"context"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/internal/audit"
)

// System defines the public contract for challenge operations.
type System interface {
	Handler() *Handler

	// Challenge re-classifies the product behind an audit record with the
	// supplied evidence merged in, forcing a fresh pipeline run.
	Challenge(ctx context.Context, auditID uuid.UUID, req Request) (*Response, error)

	// History returns prior challenges filed against a product, most
	// recent first.
	History(ctx context.Context, productID string) ([]audit.Record, error)
}
