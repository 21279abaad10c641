package regulations

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pgvector/pgvector-go"

	"github.com/asklokesh/ebt/pkg/repository"
)

type repo struct {
	db       *sql.DB
	embedder Embedder
	logger   *slog.Logger
}

// New creates a regulation retrieval system backed by a pgvector-indexed
// regulations table.
func New(db *sql.DB, embedder Embedder, logger *slog.Logger) System {
	return &repo{
		db:       db,
		embedder: embedder,
		logger:   logger.With("system", "regulations"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

const searchQuery = `
	SELECT id, regulation_id, section, content, source_url, doc_type,
	       created_at, embedding <=> $1 AS distance
	FROM regulations
	WHERE $2 = '' OR doc_type = $2
	ORDER BY embedding <=> $1
	LIMIT $3`

func (r *repo) Retrieve(ctx context.Context, query string, k int) ([]Passage, error) {
	return r.Search(ctx, query, k, "", 0.0)
}

func (r *repo) Search(
	ctx context.Context,
	query string,
	k int,
	docType string,
	minRelevance float64,
) ([]Passage, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	args := []any{pgvector.NewVector(vector), docType, k}
	hits, err := repository.QueryMany(ctx, r.db, searchQuery, args, scanPassage)
	if err != nil {
		return nil, fmt.Errorf("query regulations: %w", err)
	}

	passages := make([]Passage, 0, len(hits))
	for _, p := range hits {
		if p.Relevance >= minRelevance {
			passages = append(passages, p)
		}
	}

	r.logger.Debug("regulations retrieved",
		"query_length", len(query),
		"results", len(passages),
	)
	return passages, nil
}

func scanPassage(s repository.Scanner) (Passage, error) {
	var p Passage
	var distance float64

	err := s.Scan(
		&p.Document.ID,
		&p.Document.RegulationID,
		&p.Document.Section,
		&p.Document.Content,
		&p.Document.SourceURL,
		&p.Document.DocType,
		&p.Document.CreatedAt,
		&distance,
	)
	if err != nil {
		return p, err
	}

	// Cosine distance to relevance: closer passages score higher.
	p.Relevance = 1.0 / (1.0 + distance)
	return p, nil
}
