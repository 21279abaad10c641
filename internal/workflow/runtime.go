package workflow

import (
	"log/slog"

	"github.com/asklokesh/ebt/internal/reasoning"
	"github.com/asklokesh/ebt/internal/regulations"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure
// and Domain systems.
type Runtime struct {
	Reasoner  *reasoning.Orchestrator
	Retriever regulations.System
	Logger    *slog.Logger
}
