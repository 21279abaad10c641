package classifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/asklokesh/ebt/internal/audit"
	"github.com/asklokesh/ebt/internal/metrics"
	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/workflow"
	"github.com/asklokesh/ebt/pkg/pagination"
	"github.com/asklokesh/ebt/pkg/query"
	"github.com/asklokesh/ebt/pkg/repository"
)

// productCache resolves the most recent classification for a product id.
// The repository satisfies it against the classifications table; tests
// substitute a fake to exercise the cache branch without a database.
type productCache interface {
	FindByProduct(ctx context.Context, productID string) (*Classification, error)
}

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	audits     audit.System
	cache      productCache
	model      string
	logger     *slog.Logger
	pagination pagination.Config
	metrics    *metrics.Metrics
}

// New creates a classification repository implementing the System interface.
// model names the language model recorded on audit entries.
func New(
	db *sql.DB,
	rt *workflow.Runtime,
	audits audit.System,
	model string,
	logger *slog.Logger,
	pagination pagination.Config,
	m *metrics.Metrics,
) System {
	r := &repo{
		db:         db,
		rt:         rt,
		audits:     audits,
		model:      model,
		logger:     logger.With("system", "classifications"),
		pagination: pagination,
		metrics:    m,
	}
	r.cache = r
	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Classification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ProductID", "ProductName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count classifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, auditID uuid.UUID) (*Classification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("AuditID", auditID)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) FindByProduct(ctx context.Context, productID string) (*Classification, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("ProductID", &productID).
		BuildPage(1, 1)

	items, err := repository.QueryMany(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query classification by product: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

func (r *repo) Classify(
	ctx context.Context,
	product products.Attributes,
	source audit.Source,
	force bool,
) (*Classification, error) {
	start := time.Now()

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if !force {
		cached, err := r.cache.FindByProduct(ctx, product.ProductID)
		if err == nil {
			r.logger.Info("classification cache hit",
				"product_id", product.ProductID,
				"audit_id", cached.AuditID,
			)
			r.metrics.RecordClassification(cached.IsEligible, metrics.PathCache, 0)
			return cached, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	outcome, err := workflow.Execute(ctx, r.rt, &product)
	if err != nil {
		return nil, fmt.Errorf("classify product %s: %w", product.ProductID, err)
	}

	hash, err := products.RequestHash(&product)
	if err != nil {
		return nil, fmt.Errorf("hash request: %w", err)
	}

	c := &Classification{
		AuditID:        uuid.New(),
		ProductID:      product.ProductID,
		ProductName:    product.ProductName,
		IsEligible:     outcome.IsEligible,
		Confidence:     outcome.Confidence,
		Category:       outcome.Category,
		ReasoningChain: outcome.ReasoningChain,
		Citations:      outcome.Citations,
		KeyFactors:     outcome.KeyFactors,
		DataSources:    outcome.DataSources,
		ModelVersion:   ModelVersion,
		ProcessingMS:   time.Since(start).Milliseconds(),
		RequestHash:    hash,
		ClassifiedAt:   outcome.CompletedAt,
	}

	if err := r.persist(ctx, c, &product, outcome, source); err != nil {
		return nil, err
	}

	r.record(outcome, time.Since(start))

	r.logger.Info("product classified",
		"audit_id", c.AuditID,
		"product_id", c.ProductID,
		"is_eligible", c.IsEligible,
		"category", c.Category,
		"confidence", c.Confidence,
		"processing_ms", c.ProcessingMS,
	)
	return c, nil
}

// persist writes the classification row and its audit entry in a single
// transaction so no partial result survives a failure.
func (r *repo) persist(
	ctx context.Context,
	c *Classification,
	product *products.Attributes,
	outcome *workflow.Outcome,
	source audit.Source,
) error {
	payload, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal request payload: %w", err)
	}

	reasoningJSON, err := json.Marshal(c.ReasoningChain)
	if err != nil {
		return fmt.Errorf("marshal reasoning: %w", err)
	}
	citationsJSON, err := json.Marshal(c.Citations)
	if err != nil {
		return fmt.Errorf("marshal citations: %w", err)
	}
	factorsJSON, err := json.Marshal(c.KeyFactors)
	if err != nil {
		return fmt.Errorf("marshal key factors: %w", err)
	}
	sourcesJSON, err := json.Marshal(c.DataSources)
	if err != nil {
		return fmt.Errorf("marshal data sources: %w", err)
	}

	insertQ := `
		INSERT INTO classifications(
			audit_id, product_id, product_name, is_eligible, confidence,
			category, reasoning, citations, key_factors, data_sources,
			model_version, processing_ms, request_hash, classified_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, insertQ,
			c.AuditID,
			c.ProductID,
			c.ProductName,
			c.IsEligible,
			c.Confidence,
			string(c.Category),
			reasoningJSON,
			citationsJSON,
			factorsJSON,
			sourcesJSON,
			c.ModelVersion,
			c.ProcessingMS,
			c.RequestHash,
			c.ClassifiedAt,
		); err != nil {
			return struct{}{}, fmt.Errorf("insert classification: %w", err)
		}

		entry := audit.Entry{
			AuditID:            c.AuditID,
			RequestPayload:     payload,
			RequestSource:      source,
			ModelUsed:          r.model,
			TokensConsumed:     outcome.TokensUsed(),
			DocumentsRetrieved: outcome.RetrievedDocuments(),
		}
		if err := audit.InsertTx(ctx, tx, entry); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) record(outcome *workflow.Outcome, elapsed time.Duration) {
	path := metrics.PathAI
	if outcome.Deterministic() {
		path = metrics.PathRule
	} else if outcome.FellBack() {
		path = metrics.PathFallback
		r.metrics.RecordFallback()
	}

	r.metrics.RecordClassification(outcome.IsEligible, path, elapsed.Seconds())
}

func (r *repo) Bulk(ctx context.Context, req BulkRequest) (*BulkResult, error) {
	if len(req.Products) == 0 {
		return nil, ErrEmptyBulk
	}
	if len(req.Products) > MaxBulkProducts {
		return nil, fmt.Errorf("%w: %d products (limit %d)", ErrBulkLimit, len(req.Products), MaxBulkProducts)
	}

	concurrent := req.Options.MaxConcurrent
	if concurrent <= 0 {
		concurrent = DefaultMaxConcurrent
	}

	start := time.Now()

	var mu sync.Mutex
	results := make([]Classification, 0, len(req.Products))
	failures := make([]BulkError, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrent)

	for _, product := range req.Products {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			c, err := r.Classify(gctx, product, audit.SourceBatch, false)
			if err != nil {
				if req.Options.FailFast {
					return fmt.Errorf("product %s: %w", product.ProductID, err)
				}

				mu.Lock()
				failures = append(failures, BulkError{
					ProductID: product.ProductID,
					Error:     err.Error(),
				})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			results = append(results, *c)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("bulk classify: %w", err)
	}

	summary := BulkSummary{}
	for _, c := range results {
		if c.IsEligible {
			summary.EligibleCount++
		} else {
			summary.IneligibleCount++
		}
		if c.Confidence < LowConfidenceThreshold {
			summary.LowConfidenceCount++
		}
	}

	r.logger.Info("bulk classification complete",
		"total", len(req.Products),
		"successful", len(results),
		"failed", len(failures),
	)

	return &BulkResult{
		TotalProducts: len(req.Products),
		Successful:    len(results),
		Failed:        len(failures),
		ProcessingMS:  time.Since(start).Milliseconds(),
		Results:       results,
		Errors:        failures,
		Summary:       summary,
	}, nil
}

func (r *repo) Explain(ctx context.Context, auditID uuid.UUID) (*Explanation, error) {
	c, err := r.Find(ctx, auditID)
	if err != nil {
		return nil, err
	}

	rec, err := r.audits.Find(ctx, auditID)
	if err != nil {
		return nil, err
	}

	return explain(c, rec), nil
}
