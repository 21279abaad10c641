package config

import (
	"fmt"
	"os"
	"strconv"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "EBT_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "EBT_AGENT_BASE_URL"
	EnvAgentToken        = "EBT_AGENT_TOKEN"
	EnvAgentDeployment   = "EBT_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "EBT_AGENT_API_VERSION"
	EnvAgentAuthType     = "EBT_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "EBT_AGENT_MODEL_NAME"
	EnvAgentTemperature  = "EBT_AGENT_TEMPERATURE"
)

// DefaultTemperature keeps model output near-deterministic so repeated
// classifications of the same product stay stable.
const DefaultTemperature = 0.1

// FinalizeAgent applies the three-phase finalize pattern to a go-agents
// AgentConfig: library defaults, environment variable overrides, validation.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if _, ok := c.Provider.Options["temperature"]; !ok {
		c.Provider.Options["temperature"] = DefaultTemperature
	}
}

func loadAgentEnv(c *gaconfig.AgentConfig) {
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}
	if v := os.Getenv(EnvAgentTemperature); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Provider.Options["temperature"] = t
		}
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

// AgentModel returns the configured model name, used to stamp audit records.
func (c *Config) AgentModel() string {
	if c.Agent == nil || c.Agent.Model == nil {
		return ""
	}
	return c.Agent.Model.Name
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
