package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/rules"
)

// EvaluateNode returns a state node that runs the deterministic rule chain
// over the product attributes and stores the verdict in the state bag.
func EvaluateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		product, err := extractProduct(s)
		if err != nil {
			return s, fmt.Errorf("evaluate: %w", err)
		}

		verdict := rules.Evaluate(product)

		rt.Logger.InfoContext(
			ctx, "evaluate node complete",
			"product_id", product.ProductID,
			"deterministic", verdict.IsDeterministic,
		)

		s = s.Set(KeyVerdict, verdict)
		return s, nil
	})
}

func extractProduct(s state.State) (*products.Attributes, error) {
	val, ok := s.Get(KeyProduct)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s in state", ErrEvaluateFailed, KeyProduct)
	}

	product, ok := val.(products.Attributes)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not products.Attributes", ErrEvaluateFailed, KeyProduct)
	}

	return &product, nil
}

func extractVerdict(s state.State) (rules.Verdict, error) {
	val, ok := s.Get(KeyVerdict)
	if !ok {
		return rules.Verdict{}, fmt.Errorf("missing %s in state", KeyVerdict)
	}

	verdict, ok := val.(rules.Verdict)
	if !ok {
		return rules.Verdict{}, fmt.Errorf("%s is not rules.Verdict", KeyVerdict)
	}

	return verdict, nil
}
