// Package classifications implements the classification orchestrator: cache
// lookup, pipeline execution, result assembly, transactional persistence
// with audit write, and the bulk runner.
package classifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/internal/audit"
	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/regulations"
	"github.com/asklokesh/ebt/internal/rules"
)

// ModelVersion tags every result with the decision-logic revision that
// produced it.
const ModelVersion = "1.0.0"

// LowConfidenceThreshold marks results that bulk summaries count as low
// confidence.
const LowConfidenceThreshold = 0.8

// Bulk runner bounds.
const (
	DefaultMaxConcurrent = 5
	MaxBulkProducts      = 100
)

// Classification is a stored eligibility decision. It mirrors the
// classifications table with the structured fields serialized as JSONB.
type Classification struct {
	AuditID        uuid.UUID              `json:"audit_id"`
	ProductID      string                 `json:"product_id"`
	ProductName    string                 `json:"product_name"`
	IsEligible     bool                   `json:"is_ebt_eligible"`
	Confidence     float64                `json:"confidence_score"`
	Category       rules.Category         `json:"classification_category"`
	ReasoningChain []string               `json:"reasoning_chain"`
	Citations      []regulations.Citation `json:"regulation_citations"`
	KeyFactors     []string               `json:"key_factors"`
	DataSources    []string               `json:"data_sources_used"`
	ModelVersion   string                 `json:"model_version"`
	ProcessingMS   int64                  `json:"processing_time_ms"`
	RequestHash    string                 `json:"request_hash"`
	ClassifiedAt   time.Time              `json:"classification_timestamp"`
}

// BulkOptions controls the bulk runner.
type BulkOptions struct {
	MaxConcurrent int  `json:"max_concurrent"`
	FailFast      bool `json:"fail_fast"`
}

// BulkRequest carries a batch of products plus runner options.
type BulkRequest struct {
	Products []products.Attributes `json:"products"`
	Options  BulkOptions           `json:"options"`
}

// BulkError records a single item failure in a non-fail-fast batch.
type BulkError struct {
	ProductID string `json:"product_id,omitempty"`
	Error     string `json:"error"`
}

// BulkSummary aggregates decision counts over successful items only.
type BulkSummary struct {
	EligibleCount      int `json:"eligible_count"`
	IneligibleCount    int `json:"ineligible_count"`
	LowConfidenceCount int `json:"low_confidence_count"`
}

// BulkResult is the outcome of a bulk classification run.
type BulkResult struct {
	TotalProducts int              `json:"total_products"`
	Successful    int              `json:"successful"`
	Failed        int              `json:"failed"`
	ProcessingMS  int64            `json:"processing_time_ms"`
	Results       []Classification `json:"results"`
	Errors        []BulkError      `json:"errors"`
	Summary       BulkSummary      `json:"summary"`
}

// Explanation is the full decision breakdown for one audit id, assembled
// from the classification row and its audit record.
type Explanation struct {
	AuditID         uuid.UUID          `json:"audit_id"`
	Product         ExplainedProduct   `json:"product"`
	Classification  ExplainedDecision  `json:"classification"`
	Explanation     ExplainedReasoning `json:"explanation"`
	Metadata        ExplainedMetadata  `json:"metadata"`
	OriginalRequest json.RawMessage    `json:"original_request"`
	ChallengeInfo   ExplainedChallenge `json:"challenge_info"`
}

type ExplainedProduct struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
}

type ExplainedDecision struct {
	IsEligible bool           `json:"is_ebt_eligible"`
	Confidence float64        `json:"confidence_score"`
	Category   rules.Category `json:"classification_category"`
}

type ExplainedReasoning struct {
	ReasoningChain []string               `json:"reasoning_chain"`
	KeyFactors     []string               `json:"key_factors"`
	Citations      []regulations.Citation `json:"regulation_citations"`
}

type ExplainedMetadata struct {
	ClassifiedAt time.Time `json:"classification_timestamp"`
	ModelVersion string    `json:"model_version"`
	ProcessingMS int64     `json:"processing_time_ms"`
	DataSources  []string  `json:"data_sources_used"`
}

type ExplainedChallenge struct {
	WasChallenged   bool       `json:"was_challenged"`
	ChallengeReason *string    `json:"challenge_reason"`
	ChallengedAt    *time.Time `json:"challenge_timestamp"`
}

func explain(c *Classification, rec *audit.Record) *Explanation {
	return &Explanation{
		AuditID: c.AuditID,
		Product: ExplainedProduct{
			ProductID:   c.ProductID,
			ProductName: c.ProductName,
		},
		Classification: ExplainedDecision{
			IsEligible: c.IsEligible,
			Confidence: c.Confidence,
			Category:   c.Category,
		},
		Explanation: ExplainedReasoning{
			ReasoningChain: c.ReasoningChain,
			KeyFactors:     c.KeyFactors,
			Citations:      c.Citations,
		},
		Metadata: ExplainedMetadata{
			ClassifiedAt: c.ClassifiedAt,
			ModelVersion: c.ModelVersion,
			ProcessingMS: c.ProcessingMS,
			DataSources:  c.DataSources,
		},
		OriginalRequest: rec.RequestPayload,
		ChallengeInfo: ExplainedChallenge{
			WasChallenged:   rec.WasChallenged,
			ChallengeReason: rec.ChallengeReason,
			ChallengedAt:    rec.ChallengedAt,
		},
	}
}
