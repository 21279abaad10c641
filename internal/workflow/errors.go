// Package workflow implements the classification pipeline as a state graph:
// evaluate, then either finalize directly (deterministic verdicts) or pass
// through retrieval and AI reasoning first.
package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	ErrEvaluateFailed = errors.New("rule evaluation failed")
	ErrRetrieveFailed = errors.New("regulation retrieval failed")
	ErrReasonFailed   = errors.New("reasoning failed")
	ErrFinalizeFailed = errors.New("finalization failed")
)
