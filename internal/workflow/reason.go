package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/asklokesh/ebt/internal/reasoning"
)

// ReasonNode returns a state node that runs an AI reasoning session over
// the ambiguous product. The session itself never fails (agent errors
// produce the fallback verdict inside the orchestrator), so this node only
// errors on corrupted state.
func ReasonNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		product, err := extractProduct(s)
		if err != nil {
			return s, fmt.Errorf("reason: %w", err)
		}

		verdict, err := extractVerdict(s)
		if err != nil {
			return s, fmt.Errorf("reason: %w: %w", ErrReasonFailed, err)
		}

		result := rt.Reasoner.Reason(ctx, product, verdict, extractPassages(s))

		rt.Logger.InfoContext(
			ctx, "reason node complete",
			"product_id", product.ProductID,
			"is_eligible", result.IsEligible,
			"category", result.Category,
			"fell_back", result.FellBack,
		)

		s = s.Set(KeyReasoned, result)
		return s, nil
	})
}

func extractReasoned(s state.State) *reasoning.Result {
	val, ok := s.Get(KeyReasoned)
	if !ok {
		return nil
	}

	result, ok := val.(*reasoning.Result)
	if !ok {
		return nil
	}

	return result
}
