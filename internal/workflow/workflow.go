package workflow

import (
	"context"
	"fmt"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/asklokesh/ebt/internal/products"
)

// Execute runs the classification pipeline for a single product. It builds
// the state graph (evaluate → retrieve? → reason? → finalize), executes it,
// and extracts the Outcome from the final state.
func Execute(ctx context.Context, rt *Runtime, product *products.Attributes) (*Outcome, error) {
	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyProduct, *product)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractOutcome(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("ebt-classify")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("evaluate", EvaluateNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("retrieve", RetrieveNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("reason", ReasonNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("finalize", FinalizeNode(rt)); err != nil {
		return nil, err
	}

	// evaluate → finalize (rule chain resolved the product)
	if err := graph.AddEdge("evaluate", "finalize", isDeterministic); err != nil {
		return nil, err
	}

	// evaluate → retrieve (ambiguous: gather regulation context)
	if err := graph.AddEdge("evaluate", "retrieve", state.Not(isDeterministic)); err != nil {
		return nil, err
	}

	// retrieve → reason (unconditional)
	if err := graph.AddEdge("retrieve", "reason", nil); err != nil {
		return nil, err
	}

	// reason → finalize (unconditional)
	if err := graph.AddEdge("reason", "finalize", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("evaluate"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("finalize"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractOutcome(s state.State) (*Outcome, error) {
	val, ok := s.Get(KeyOutcome)
	if !ok {
		return nil, fmt.Errorf("missing %s in final state", KeyOutcome)
	}

	outcome, ok := val.(Outcome)
	if !ok {
		return nil, fmt.Errorf("%s is not Outcome", KeyOutcome)
	}

	return &outcome, nil
}

func isDeterministic(s state.State) bool {
	verdict, err := extractVerdict(s)
	if err != nil {
		return false
	}
	return verdict.IsDeterministic
}
