package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/asklokesh/ebt/internal/reasoning"
)

const (
	EnvReasoningMaxSteps = "EBT_REASONING_MAX_STEPS"
	EnvReasoningTimeout  = "EBT_REASONING_TIMEOUT"
	EnvReasoningTopK     = "EBT_REASONING_TOP_K"
)

func (c *Config) finalizeReasoning() error {
	r := &c.Reasoning

	defaults := reasoning.DefaultConfig()
	defaults.Merge(*r)
	*r = defaults

	if v := os.Getenv(EnvReasoningMaxSteps); v != "" {
		if steps, err := strconv.Atoi(v); err == nil {
			r.MaxSteps = steps
		}
	}
	if v := os.Getenv(EnvReasoningTimeout); v != "" {
		r.Timeout = v
	}
	if v := os.Getenv(EnvReasoningTopK); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			r.TopK = k
		}
	}

	if r.MaxSteps < 1 {
		return fmt.Errorf("invalid max_steps: %d", r.MaxSteps)
	}
	if r.TopK < 1 {
		return fmt.Errorf("invalid top_k: %d", r.TopK)
	}
	if _, err := time.ParseDuration(r.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
