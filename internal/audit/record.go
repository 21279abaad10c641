// Package audit implements the compliance audit trail: one durable record
// per classification attempt, updated in place only when a challenge is
// filed against it.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/internal/rules"
)

// Source identifies the originating channel of a classification request.
type Source string

// Recognized request sources.
const (
	SourceAPI       Source = "API"
	SourceUI        Source = "UI"
	SourceBatch     Source = "Batch"
	SourceChallenge Source = "Challenge"
)

// Record is one audit trail entry joined with the decision summary of its
// classification. Challenge fields are nil until a challenge is processed.
type Record struct {
	AuditID            uuid.UUID       `json:"audit_id"`
	CreatedAt          time.Time       `json:"timestamp"`
	RequestPayload     json.RawMessage `json:"request_payload"`
	RequestSource      Source          `json:"request_source"`
	ModelUsed          string          `json:"model_used"`
	TokensConsumed     int             `json:"tokens_consumed"`
	DocumentsRetrieved []string        `json:"rag_documents_retrieved"`

	ProductID   string         `json:"product_id"`
	ProductName string         `json:"product_name"`
	IsEligible  bool           `json:"is_ebt_eligible"`
	Category    rules.Category `json:"classification_category"`
	Confidence  float64        `json:"confidence_score"`

	WasChallenged    bool       `json:"was_challenged"`
	ChallengeReason  *string    `json:"challenge_reason,omitempty"`
	ChallengeAuditID *uuid.UUID `json:"challenge_audit_id,omitempty"`
	ChallengedAt     *time.Time `json:"challenge_timestamp,omitempty"`
}

// Entry is the write-side shape of an audit record, captured at the moment
// a classification is finalized.
type Entry struct {
	AuditID            uuid.UUID
	RequestPayload     json.RawMessage
	RequestSource      Source
	ModelUsed          string
	TokensConsumed     int
	DocumentsRetrieved []string
}
