package api

import (
	"github.com/asklokesh/ebt/internal/audit"
	"github.com/asklokesh/ebt/internal/challenges"
	"github.com/asklokesh/ebt/internal/classifications"
	"github.com/asklokesh/ebt/internal/reasoning"
	"github.com/asklokesh/ebt/internal/regulations"
	"github.com/asklokesh/ebt/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Regulations     regulations.System
	Audit           audit.System
	Classifications classifications.System
	Challenges      challenges.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	cfg := runtime.Config

	regulationsSystem := regulations.New(
		runtime.Database.Connection(),
		regulations.NewEmbedder(cfg.Embedding),
		runtime.Logger,
	)

	auditSystem := audit.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	reasoner := &reasoning.Orchestrator{
		Chat:      reasoning.AgentFactory(*cfg.Agent),
		Retriever: regulationsSystem,
		Logger:    runtime.Logger,
		Config:    cfg.Reasoning,
	}

	pipeline := &workflow.Runtime{
		Reasoner:  reasoner,
		Retriever: regulationsSystem,
		Logger:    runtime.Logger,
	}

	classificationsSystem := classifications.New(
		runtime.Database.Connection(),
		pipeline,
		auditSystem,
		cfg.AgentModel(),
		runtime.Logger,
		runtime.Pagination,
		runtime.Metrics,
	)

	challengesSystem := challenges.New(
		auditSystem,
		classificationsSystem,
		runtime.Metrics,
		runtime.Logger,
	)

	return &Domain{
		Regulations:     regulationsSystem,
		Audit:           auditSystem,
		Classifications: classificationsSystem,
		Challenges:      challengesSystem,
	}
}
