package reasoning

import "time"

// Config controls the reasoning session. Zero values are filled from
// defaults during config finalization.
type Config struct {
	// MaxSteps bounds the number of model exchanges per session,
	// including lookup round trips.
	MaxSteps int `toml:"max_steps"`

	// Timeout is the wall-clock budget for a whole session. Exceeding it
	// is treated as a reasoning failure and produces the fallback verdict.
	Timeout string `toml:"timeout"`

	// TopK is the number of regulation passages retrieved per lookup.
	TopK int `toml:"top_k"`
}

// DefaultConfig returns the session defaults: five exchanges, a 60 second
// wall clock, and three passages per lookup.
func DefaultConfig() Config {
	return Config{
		MaxSteps: 5,
		Timeout:  "60s",
		TopK:     3,
	}
}

// Merge overwrites fields that o sets to non-zero values.
func (c *Config) Merge(o Config) {
	if o.MaxSteps > 0 {
		c.MaxSteps = o.MaxSteps
	}
	if o.Timeout != "" {
		c.Timeout = o.Timeout
	}
	if o.TopK > 0 {
		c.TopK = o.TopK
	}
}

// TimeoutDuration parses Timeout, falling back to the default when the
// value is missing or malformed.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}
