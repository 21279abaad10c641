// Package confidence fuses classification signals into a single calibrated
// score. The weighted factors are rule determinism, input completeness,
// rule/reasoning consistency, and evidence volume.
package confidence

import (
	"math"

	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/reasoning"
	"github.com/asklokesh/ebt/internal/rules"
)

// Confidence band thresholds.
const (
	High   = 0.9
	Medium = 0.7
	Low    = 0.5
)

// Factor weights. They sum to 1.0 so the weighted sum is already normalized.
const (
	weightRule         = 0.30
	weightCompleteness = 0.25
	weightConsistency  = 0.25
	weightEvidence     = 0.20
)

// Score fuses the rule verdict, the optional reasoning result, and input
// completeness into a score in [0, 1] rounded to two decimals.
func Score(a *products.Attributes, verdict rules.Verdict, reasoned *reasoning.Result) float64 {
	weighted := scoreRule(verdict)*weightRule +
		scoreCompleteness(a)*weightCompleteness +
		scoreConsistency(verdict, reasoned)*weightConsistency +
		scoreEvidence(verdict, reasoned)*weightEvidence

	return math.Round(clamp(weighted)*100) / 100
}

// Label maps a score to a human-readable band.
func Label(score float64) string {
	switch {
	case score >= High:
		return "High"
	case score >= Medium:
		return "Medium"
	case score >= Low:
		return "Low"
	default:
		return "Very Low"
	}
}

// NeedsReview reports whether a classification should be flagged for
// manual review.
func NeedsReview(score float64) bool {
	return score < Medium
}

func scoreRule(verdict rules.Verdict) float64 {
	if verdict.IsDeterministic {
		return 1.0
	}
	return Medium
}

// scoreCompleteness weights required fields over helpful ones.
func scoreCompleteness(a *products.Attributes) float64 {
	required := 1.0 // product_name is always present after validation
	if a.Category != nil {
		required++
	}
	if a.LabelType != nil {
		required++
	}

	helpful := 0.0
	if a.Description != nil {
		helpful++
	}
	if a.Brand != nil {
		helpful++
	}
	if a.UPC != nil {
		helpful++
	}
	if a.Ingredients != nil {
		helpful++
	}

	return (required/3)*0.7 + (helpful/4)*0.3
}

func scoreConsistency(verdict rules.Verdict, reasoned *reasoning.Result) float64 {
	if verdict.IsDeterministic {
		return 1.0
	}
	if reasoned == nil {
		return Medium
	}

	switch n := len(reasoned.ReasoningChain); {
	case n >= 3:
		return High
	case n >= 1:
		return Medium
	default:
		return Low
	}
}

// scoreEvidence rewards citation and reasoning volume, maxing out at 3
// citations and 5 reasoning steps.
func scoreEvidence(verdict rules.Verdict, reasoned *reasoning.Result) float64 {
	citations := len(verdict.Citations)
	steps := len(verdict.ReasoningChain)
	if reasoned != nil {
		citations += len(reasoned.Citations)
		steps += len(reasoned.ReasoningChain)
	}

	citationScore := math.Min(1.0, float64(citations)/3)
	reasoningScore := math.Min(1.0, float64(steps)/5)

	return citationScore*0.4 + reasoningScore*0.6
}

func clamp(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
