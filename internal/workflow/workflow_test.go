package workflow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/reasoning"
	"github.com/asklokesh/ebt/internal/regulations"
	"github.com/asklokesh/ebt/internal/rules"
)

func ptr[T any](v T) *T { return &v }

type stubRetriever struct {
	passages []regulations.Passage
	err      error
}

func (f *stubRetriever) Handler() *regulations.Handler { return nil }

func (f *stubRetriever) Retrieve(ctx context.Context, query string, k int) ([]regulations.Passage, error) {
	return f.passages, f.err
}

func (f *stubRetriever) Search(ctx context.Context, query string, k int, docType string, minRelevance float64) ([]regulations.Passage, error) {
	return f.passages, f.err
}

type stubChatter struct {
	response string
	err      error
}

func (s *stubChatter) Chat(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func testRuntime(chat reasoning.Chatter, retriever regulations.System) *Runtime {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Runtime{
		Reasoner: &reasoning.Orchestrator{
			Chat:      func() (reasoning.Chatter, error) { return chat, nil },
			Retriever: retriever,
			Logger:    logger,
			Config:    reasoning.DefaultConfig(),
		},
		Retriever: retriever,
		Logger:    logger,
	}
}

func TestExecuteDeterministicPath(t *testing.T) {
	// The retriever and agent error on contact; a rule-resolved product
	// must never reach them.
	rt := testRuntime(
		&stubChatter{err: errors.New("must not be called")},
		&stubRetriever{err: errors.New("must not be called")},
	)

	product := &products.Attributes{
		ProductID:      "beer-1",
		ProductName:    "Corona Extra",
		AlcoholContent: ptr(0.045),
	}

	outcome, err := Execute(context.Background(), rt, product)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if !outcome.Deterministic() {
		t.Fatal("expected deterministic outcome")
	}
	if outcome.IsEligible {
		t.Error("alcohol product must be ineligible")
	}
	if outcome.Category != rules.IneligibleAlcohol {
		t.Errorf("Category = %s", outcome.Category)
	}
	if outcome.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", outcome.Confidence)
	}
	if len(outcome.DataSources) != 1 || outcome.DataSources[0] != "Rule-based validator" {
		t.Errorf("DataSources = %v", outcome.DataSources)
	}
	if outcome.Reasoned != nil {
		t.Error("deterministic outcome must not carry a reasoning result")
	}
	if outcome.TokensUsed() != 0 {
		t.Errorf("TokensUsed = %d, want 0", outcome.TokensUsed())
	}
	if outcome.CompletedAt.IsZero() {
		t.Error("CompletedAt is zero")
	}
}

func TestExecuteReasonedPath(t *testing.T) {
	chat := &stubChatter{
		response: `{"eligibility": "ELIGIBLE", "category": "ELIGIBLE_BEVERAGE", "reasoning": ["Functional drink", "No disqualifying ingredients", "Sold for home consumption"]}`,
	}
	retriever := &stubRetriever{
		passages: []regulations.Passage{
			{
				Document: regulations.Document{
					RegulationID: "7 CFR 271.2",
					Content:      "Eligible food means any food for home consumption.",
				},
				Relevance: 0.88,
			},
		},
	}

	product := &products.Attributes{
		ProductID:   "drink-1",
		ProductName: "Protein Water",
		Category:    ptr("Functional Wellness"),
	}

	outcome, err := Execute(context.Background(), testRuntime(chat, retriever), product)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if outcome.Deterministic() {
		t.Fatal("expected AI-reasoned outcome")
	}
	if !outcome.IsEligible || outcome.Category != rules.EligibleBeverage {
		t.Errorf("verdict = %v/%s", outcome.IsEligible, outcome.Category)
	}
	if outcome.Confidence <= 0.0 || outcome.Confidence >= 1.0 {
		t.Errorf("Confidence = %v, want inside (0, 1)", outcome.Confidence)
	}
	if outcome.Reasoned == nil || outcome.Reasoned.FellBack {
		t.Error("expected genuine reasoning result")
	}
	if len(outcome.Passages) != 1 {
		t.Errorf("Passages = %d, want 1", len(outcome.Passages))
	}
	// Rule-chain preamble precedes the model reasoning.
	if len(outcome.ReasoningChain) < 3 {
		t.Errorf("ReasoningChain = %v", outcome.ReasoningChain)
	}
}

func TestExecuteFallbackPath(t *testing.T) {
	chat := &stubChatter{err: errors.New("model unavailable")}
	retriever := &stubRetriever{err: errors.New("vector store down")}

	product := &products.Attributes{
		ProductID:   "mystery-1",
		ProductName: "Energy Boost Shot",
	}

	outcome, err := Execute(context.Background(), testRuntime(chat, retriever), product)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if !outcome.FellBack() {
		t.Fatal("expected fallback outcome")
	}
	if !outcome.IsEligible || outcome.Category != rules.EligibleOther {
		t.Errorf("fallback verdict = %v/%s", outcome.IsEligible, outcome.Category)
	}
	if len(outcome.ReasoningChain) == 0 {
		t.Error("reasoning chain is empty")
	}
}

func TestOutcomeRetrievedDocuments(t *testing.T) {
	o := Outcome{}
	if docs := o.RetrievedDocuments(); len(docs) != 0 {
		t.Errorf("RetrievedDocuments = %v, want empty", docs)
	}
}
