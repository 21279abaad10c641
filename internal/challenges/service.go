package challenges

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/internal/audit"
	"github.com/asklokesh/ebt/internal/classifications"
	"github.com/asklokesh/ebt/internal/metrics"
	"github.com/asklokesh/ebt/internal/products"
)

type service struct {
	audits     audit.System
	classifier classifications.System
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// New creates the challenge System backed by the audit trail and the
// classification orchestrator.
func New(
	audits audit.System,
	classifier classifications.System,
	m *metrics.Metrics,
	logger *slog.Logger,
) System {
	return &service{
		audits:     audits,
		classifier: classifier,
		metrics:    m,
		logger:     logger.With("system", "challenges"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Challenge(
	ctx context.Context,
	auditID uuid.UUID,
	req Request,
) (*Response, error) {
	if strings.TrimSpace(req.ChallengeReason) == "" {
		return nil, ErrReasonRequired
	}

	rec, err := s.audits.Find(ctx, auditID)
	if err != nil {
		if errors.Is(err, audit.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOriginalNotFound, auditID)
		}
		return nil, fmt.Errorf("find original audit record: %w", err)
	}

	var original products.Attributes
	if err := json.Unmarshal(rec.RequestPayload, &original); err != nil {
		return nil, fmt.Errorf("decode original request payload: %w", err)
	}

	merged, err := products.ApplyEvidence(&original, req.AdditionalEvidence)
	if err != nil {
		return nil, err
	}

	updated, err := s.classifier.Classify(
		ctx,
		*merged,
		audit.SourceChallenge,
		true,
	)
	if err != nil {
		return nil, fmt.Errorf("re-classify challenged product: %w", err)
	}

	if err := s.audits.MarkChallenged(
		ctx,
		auditID,
		req.ChallengeReason,
		updated.AuditID,
	); err != nil {
		return nil, fmt.Errorf("record challenge outcome: %w", err)
	}

	changed := rec.IsEligible != updated.IsEligible ||
		rec.Category != updated.Category

	s.metrics.RecordChallenge()

	s.logger.Info(
		"challenge processed",
		"original_audit_id", auditID,
		"challenge_audit_id", updated.AuditID,
		"changed", changed,
	)

	return &Response{
		OriginalAuditID:        auditID,
		ChallengeAuditID:       updated.AuditID,
		OriginalClassification: summarize(rec),
		NewClassification:      updated,
		ClassificationChanged:  changed,
		ReasoningForChange:     changeReasoning(rec, req, updated, changed),
	}, nil
}

func (s *service) History(
	ctx context.Context,
	productID string,
) ([]audit.Record, error) {
	return s.audits.ChallengeHistory(ctx, productID)
}
