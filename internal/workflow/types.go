package workflow

import (
	"time"

	"github.com/asklokesh/ebt/internal/reasoning"
	"github.com/asklokesh/ebt/internal/regulations"
	"github.com/asklokesh/ebt/internal/rules"
)

// State bag keys shared by the pipeline nodes.
const (
	KeyProduct  = "product"
	KeyVerdict  = "rule_verdict"
	KeyPassages = "passages"
	KeyReasoned = "reasoning_result"
	KeyOutcome  = "outcome"
)

// Outcome is the final product of a pipeline execution: the fused decision
// plus the intermediate verdicts that produced it. Reasoned is nil when the
// rule chain resolved the product deterministically.
type Outcome struct {
	Verdict  rules.Verdict         `json:"rule_verdict"`
	Reasoned *reasoning.Result     `json:"reasoning_result,omitempty"`
	Passages []regulations.Passage `json:"passages,omitempty"`

	IsEligible     bool                   `json:"is_eligible"`
	Category       rules.Category         `json:"category"`
	Confidence     float64                `json:"confidence"`
	ReasoningChain []string               `json:"reasoning_chain"`
	Citations      []regulations.Citation `json:"citations"`
	KeyFactors     []string               `json:"key_factors"`
	DataSources    []string               `json:"data_sources"`
	CompletedAt    time.Time              `json:"completed_at"`
}

// Deterministic reports whether the rule chain resolved this outcome
// without AI reasoning.
func (o *Outcome) Deterministic() bool {
	return o.Verdict.IsDeterministic
}

// FellBack reports whether the reasoning fallback path produced this
// outcome.
func (o *Outcome) FellBack() bool {
	return o.Reasoned != nil && o.Reasoned.FellBack
}

// TokensUsed returns the estimated language-model token consumption.
// Zero when the rule path was taken.
func (o *Outcome) TokensUsed() int {
	if o.Reasoned == nil {
		return 0
	}
	return o.Reasoned.TokensUsed
}

// RetrievedDocuments returns the ids of regulation passages consulted
// during this execution.
func (o *Outcome) RetrievedDocuments() []string {
	ids := make([]string, 0, len(o.Passages))
	for _, p := range o.Passages {
		ids = append(ids, p.Document.ID.String())
	}
	return ids
}
