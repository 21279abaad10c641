// Package challenges implements the dispute flow: re-classify a prior
// decision with supplemental evidence, link the two audit records, and
// report whether the outcome changed.
package challenges

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/internal/audit"
	"github.com/asklokesh/ebt/internal/classifications"
	"github.com/asklokesh/ebt/internal/rules"
)

// Request carries the reason for disputing a classification plus any
// corrected or additional product attributes.
type Request struct {
	ChallengeReason    string         `json:"challenge_reason"`
	AdditionalEvidence map[string]any `json:"additional_evidence,omitempty"`
}

// Summary condenses the decision of the original classification.
type Summary struct {
	IsEligible bool           `json:"is_ebt_eligible"`
	Category   rules.Category `json:"classification_category"`
	Confidence float64        `json:"confidence_score"`
}

// Response describes the outcome of a processed challenge.
type Response struct {
	OriginalAuditID        uuid.UUID                        `json:"original_audit_id"`
	ChallengeAuditID       uuid.UUID                        `json:"challenge_audit_id"`
	OriginalClassification Summary                          `json:"original_classification"`
	NewClassification      *classifications.Classification  `json:"new_classification"`
	ClassificationChanged  bool                             `json:"classification_changed"`
	ReasoningForChange     []string                         `json:"reasoning_for_change"`
}

func summarize(rec *audit.Record) Summary {
	return Summary{
		IsEligible: rec.IsEligible,
		Category:   rec.Category,
		Confidence: rec.Confidence,
	}
}

func changeReasoning(
	rec *audit.Record,
	req Request,
	updated *classifications.Classification,
	changed bool,
) []string {
	reasoning := []string{
		fmt.Sprintf(
			"Original classification: %s (%s)",
			eligibilityWord(rec.IsEligible),
			rec.Category,
		),
		fmt.Sprintf("Challenge reason: %s", req.ChallengeReason),
	}

	if len(req.AdditionalEvidence) > 0 {
		keys := make([]string, 0, len(req.AdditionalEvidence))
		for key := range req.AdditionalEvidence {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		reasoning = append(reasoning, fmt.Sprintf(
			"Additional evidence considered: %v", keys,
		))
	}

	if changed {
		reasoning = append(reasoning, fmt.Sprintf(
			"Classification changed to: %s (%s)",
			eligibilityWord(updated.IsEligible),
			updated.Category,
		))
	} else {
		reasoning = append(
			reasoning,
			"Classification unchanged after re-evaluation",
		)
	}

	return reasoning
}

func eligibilityWord(eligible bool) string {
	if eligible {
		return "ELIGIBLE"
	}

	return "INELIGIBLE"
}
