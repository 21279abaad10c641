package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/asklokesh/ebt/internal/regulations"
)

// RetrieveNode returns a state node that fetches regulation passages
// relevant to the product for use as reasoning context. Retrieval
// unavailability degrades to an empty context rather than failing the
// pipeline; only caller cancellation aborts.
func RetrieveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		product, err := extractProduct(s)
		if err != nil {
			return s, fmt.Errorf("retrieve: %w", err)
		}

		query := regulations.ClassificationQuery(product)

		passages, err := rt.Retriever.Retrieve(ctx, query, regulations.DefaultTopK)
		if err != nil {
			if ctx.Err() != nil {
				return s, fmt.Errorf("retrieve: %w", ctx.Err())
			}

			rt.Logger.WarnContext(
				ctx, "retrieval degraded to empty context",
				"product_id", product.ProductID,
				"error", err,
			)
			passages = nil
		}

		rt.Logger.InfoContext(
			ctx, "retrieve node complete",
			"product_id", product.ProductID,
			"passages", len(passages),
		)

		s = s.Set(KeyPassages, passages)
		return s, nil
	})
}

func extractPassages(s state.State) []regulations.Passage {
	val, ok := s.Get(KeyPassages)
	if !ok {
		return nil
	}

	passages, ok := val.([]regulations.Passage)
	if !ok {
		return nil
	}

	return passages
}
