package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/pkg/pagination"
)

// System defines the public contract for audit trail operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	Find(ctx context.Context, auditID uuid.UUID) (*Record, error)

	// ChallengeHistory returns the challenged records for a product,
	// most recent first.
	ChallengeHistory(ctx context.Context, productID string) ([]Record, error)

	// MarkChallenged records a challenge outcome on the original audit
	// record, linking it to the re-classification's audit id.
	MarkChallenged(ctx context.Context, auditID uuid.UUID, reason string, challengeAuditID uuid.UUID) error
}
