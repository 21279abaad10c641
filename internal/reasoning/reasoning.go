// Package reasoning drives AI classification of products the rule chain
// could not resolve. A session is a bounded exchange with a chat agent:
// the model may request additional regulation passages with LOOKUP lines,
// and every failure mode degrades to a conservative fallback verdict
// rather than an error.
package reasoning

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/regulations"
	"github.com/asklokesh/ebt/internal/rules"
)

// Result is the reasoning verdict for an ambiguous product. FellBack marks
// results produced by the conservative fallback path instead of the model.
type Result struct {
	IsEligible     bool                   `json:"is_eligible"`
	Category       rules.Category         `json:"category"`
	ReasoningChain []string               `json:"reasoning_chain"`
	Citations      []regulations.Citation `json:"citations"`
	KeyFactors     []string               `json:"key_factors"`
	DataSources    []string               `json:"data_sources_used"`
	TokensUsed     int                    `json:"tokens_used"`
	FellBack       bool                   `json:"-"`
}

// Chatter is a single-exchange chat surface over an LLM agent.
type Chatter interface {
	Chat(ctx context.Context, prompt string) (string, error)
}

// ChatFactory creates a fresh Chatter per session.
type ChatFactory func() (Chatter, error)

type chatFunc func(ctx context.Context, prompt string) (string, error)

func (f chatFunc) Chat(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// AgentFactory adapts a go-agents chat agent configuration to a ChatFactory.
func AgentFactory(cfg gaconfig.AgentConfig) ChatFactory {
	return func() (Chatter, error) {
		a, err := agent.New(&cfg)
		if err != nil {
			return nil, err
		}
		return chatFunc(func(ctx context.Context, prompt string) (string, error) {
			resp, err := a.Chat(ctx, prompt)
			if err != nil {
				return "", err
			}
			return resp.Text(), nil
		}), nil
	}
}

// Orchestrator runs reasoning sessions. Retriever supplies passages for
// LOOKUP round trips and may be nil when retrieval is unavailable.
type Orchestrator struct {
	Chat      ChatFactory
	Retriever regulations.System
	Logger    *slog.Logger
	Config    Config
}

// Reason classifies a product via the agent. It never returns an error:
// agent failures, parse failures, and timeouts all yield the fallback
// verdict so a pipeline run always completes.
func (o *Orchestrator) Reason(ctx context.Context, a *products.Attributes, verdict rules.Verdict, passages []regulations.Passage) *Result {
	sctx, cancel := context.WithTimeout(ctx, o.Config.TimeoutDuration())
	defer cancel()

	o.Logger.InfoContext(sctx, "reasoning session started",
		"product_id", a.ProductID,
		"passages", len(passages),
	)

	chat, err := o.Chat()
	if err != nil {
		o.Logger.ErrorContext(ctx, "reasoning agent unavailable", "error", err)
		return o.fallback(a, err)
	}

	prompt := buildPrompt(a, verdict, passages)
	tokens := 0
	response := ""

	for step := 0; step < o.Config.MaxSteps; step++ {
		response, err = chat.Chat(sctx, prompt)
		if err != nil {
			o.Logger.ErrorContext(ctx, "reasoning session failed",
				"product_id", a.ProductID,
				"step", step+1,
				"error", err,
			)
			return o.fallback(a, err)
		}
		tokens += estimateTokens(prompt) + estimateTokens(response)

		query, ok := lookupQuery(response)
		if !ok || step == o.Config.MaxSteps-1 {
			break
		}

		prompt = followUpPrompt(query, o.lookup(sctx, query))
	}

	result := parseResponse(response, a)
	result.TokensUsed = tokens

	o.Logger.InfoContext(sctx, "reasoning session completed",
		"product_id", a.ProductID,
		"is_eligible", result.IsEligible,
		"category", result.Category,
		"tokens_estimated", tokens,
	)

	return result
}

// lookup serves a LOOKUP request. Retrieval errors degrade to an empty
// passage set so the session continues on attributes alone.
func (o *Orchestrator) lookup(ctx context.Context, query string) []regulations.Passage {
	if o.Retriever == nil {
		return nil
	}

	passages, err := o.Retriever.Retrieve(ctx, query, o.Config.TopK)
	if err != nil {
		o.Logger.WarnContext(ctx, "regulation lookup failed", "query", query, "error", err)
		return nil
	}
	return passages
}

// fallback is the conservative verdict used when reasoning is unavailable:
// eligible unless the label already disqualifies, always flagged for
// manual review.
func (o *Orchestrator) fallback(a *products.Attributes, cause error) *Result {
	reasoning := []string{
		"AI reasoning was not available or encountered an error",
	}
	if cause != nil {
		reasoning = append(reasoning, "Error: "+cause.Error())
	}
	reasoning = append(reasoning, "Applying conservative classification based on available attributes")

	eligible := true
	category := rules.EligibleOther

	if a.HasLabel(products.LabelSupplementFacts) {
		eligible = false
		category = rules.IneligibleSupplement
		reasoning = append(reasoning, "Product has Supplement Facts label - ineligible")
	}

	return &Result{
		IsEligible:     eligible,
		Category:       category,
		ReasoningChain: reasoning,
		Citations:      []regulations.Citation{},
		KeyFactors:     []string{"Manual review recommended"},
		DataSources:    []string{"Fallback logic"},
		FellBack:       true,
	}
}

// estimateTokens approximates token usage at four characters per token.
// The chat surface does not expose provider accounting.
func estimateTokens(s string) int {
	return len(s) / 4
}
