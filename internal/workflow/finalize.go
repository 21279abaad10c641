package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/asklokesh/ebt/internal/confidence"
)

// FinalizeNode returns a state node that assembles the pipeline outcome.
// Deterministic verdicts carry fixed confidence 1.0 and bypass the fuser;
// reasoned verdicts are scored from the fused signals.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		product, err := extractProduct(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w", err)
		}

		verdict, err := extractVerdict(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w: %w", ErrFinalizeFailed, err)
		}

		outcome := Outcome{
			Verdict:     verdict,
			Passages:    extractPassages(s),
			CompletedAt: time.Now().UTC(),
		}

		if verdict.IsDeterministic {
			outcome.IsEligible = *verdict.IsEligible
			outcome.Category = *verdict.Category
			outcome.Confidence = 1.0
			outcome.ReasoningChain = verdict.ReasoningChain
			outcome.Citations = verdict.Citations
			outcome.KeyFactors = verdict.KeyFactors
			outcome.DataSources = []string{"Rule-based validator"}
		} else {
			reasoned := extractReasoned(s)
			if reasoned == nil {
				return s, fmt.Errorf("%w: missing %s in state", ErrFinalizeFailed, KeyReasoned)
			}

			outcome.Reasoned = reasoned
			outcome.IsEligible = reasoned.IsEligible
			outcome.Category = reasoned.Category
			outcome.Confidence = confidence.Score(product, verdict, reasoned)
			outcome.ReasoningChain = append(verdict.ReasoningChain, reasoned.ReasoningChain...)
			outcome.Citations = append(verdict.Citations, reasoned.Citations...)
			outcome.KeyFactors = reasoned.KeyFactors
			outcome.DataSources = reasoned.DataSources
		}

		if len(outcome.ReasoningChain) == 0 {
			outcome.ReasoningChain = []string{"Classification completed without detailed reasoning"}
		}
		if !outcome.Category.Valid() {
			return s, fmt.Errorf("%w: invalid category %q", ErrFinalizeFailed, outcome.Category)
		}

		rt.Logger.InfoContext(
			ctx, "finalize node complete",
			"product_id", product.ProductID,
			"is_eligible", outcome.IsEligible,
			"category", outcome.Category,
			"confidence", outcome.Confidence,
		)

		s = s.Set(KeyOutcome, outcome)
		return s, nil
	})
}
