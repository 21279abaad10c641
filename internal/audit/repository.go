package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/pkg/pagination"
	"github.com/asklokesh/ebt/pkg/query"
	"github.com/asklokesh/ebt/pkg/repository"
)

const challengeHistoryLimit = 100

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an audit repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "audit"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

// InsertTx writes an audit entry inside an existing transaction so the
// classification row and its audit record commit atomically.
func InsertTx(ctx context.Context, tx *sql.Tx, e Entry) error {
	docs := e.DocumentsRetrieved
	if docs == nil {
		docs = []string{}
	}

	docsJSON, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshal documents_retrieved: %w", err)
	}

	insertQ := `
		INSERT INTO audit_trail(
			audit_id, request_payload, request_source, model_used,
			tokens_consumed, documents_retrieved
		)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := tx.ExecContext(ctx, insertQ,
		e.AuditID,
		[]byte(e.RequestPayload),
		string(e.RequestSource),
		e.ModelUsed,
		e.TokensConsumed,
		docsJSON,
	); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}

	return nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audit records: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, auditID uuid.UUID) (*Record, error) {
	q, args := query.NewBuilder(projection).BuildSingle("AuditID", auditID)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) ChallengeHistory(ctx context.Context, productID string) ([]Record, error) {
	challenged := true

	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("ProductID", &productID).
		WhereEquals("WasChallenged", &challenged).
		BuildPage(1, challengeHistoryLimit)

	records, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query challenge history: %w", err)
	}
	return records, nil
}

func (r *repo) MarkChallenged(ctx context.Context, auditID uuid.UUID, reason string, challengeAuditID uuid.UUID) error {
	updateQ := `
		UPDATE audit_trail
		SET was_challenged = TRUE,
			challenge_reason = $1,
			challenge_audit_id = $2,
			challenged_at = NOW()
		WHERE audit_id = $3`

	if err := repository.ExecExpectOne(ctx, r.db, updateQ, reason, challengeAuditID, auditID); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("audit record challenged",
		"audit_id", auditID,
		"challenge_audit_id", challengeAuditID,
	)
	return nil
}
