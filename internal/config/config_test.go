package config_test

import (
	"testing"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/asklokesh/ebt/internal/config"
	"github.com/asklokesh/ebt/internal/reasoning"
)

func TestFinalizeAgent(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		cfg := &gaconfig.AgentConfig{
			Name: "ebt-classifier",
			Provider: &gaconfig.ProviderConfig{
				Name:    "ollama",
				BaseURL: "http://localhost:11434",
			},
			Model: &gaconfig.ModelConfig{Name: "llama3.2"},
		}

		if err := config.FinalizeAgent(cfg); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}

		if temp, ok := cfg.Provider.Options["temperature"]; !ok || temp != config.DefaultTemperature {
			t.Errorf("temperature = %v, want %v", temp, config.DefaultTemperature)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv(config.EnvAgentModelName, "mistral")
		t.Setenv(config.EnvAgentTemperature, "0.4")
		t.Setenv(config.EnvAgentToken, "secret")

		cfg := &gaconfig.AgentConfig{
			Name:     "ebt-classifier",
			Provider: &gaconfig.ProviderConfig{Name: "ollama"},
			Model:    &gaconfig.ModelConfig{Name: "llama3.2"},
		}

		if err := config.FinalizeAgent(cfg); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}

		if cfg.Model.Name != "mistral" {
			t.Errorf("model = %s, want mistral", cfg.Model.Name)
		}
		if cfg.Provider.Options["temperature"] != 0.4 {
			t.Errorf("temperature = %v, want 0.4", cfg.Provider.Options["temperature"])
		}
		if cfg.Provider.Options["token"] != "secret" {
			t.Errorf("token = %v", cfg.Provider.Options["token"])
		}
	})

	t.Run("missing provider name rejected", func(t *testing.T) {
		cfg := &gaconfig.AgentConfig{Name: "ebt-classifier"}
		if err := config.FinalizeAgent(cfg); err == nil {
			t.Fatal("expected error for missing provider name")
		}
	})
}

func TestConfigMerge(t *testing.T) {
	base := &config.Config{
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
	base.Server.Port = 8080
	base.Reasoning = reasoning.Config{MaxSteps: 5, Timeout: "60s", TopK: 3}

	overlay := &config.Config{Version: "1.2.0"}
	overlay.Server.Port = 9090
	overlay.Reasoning = reasoning.Config{MaxSteps: 8}

	base.Merge(overlay)

	if base.Version != "1.2.0" {
		t.Errorf("Version = %s", base.Version)
	}
	if base.ShutdownTimeout != "30s" {
		t.Errorf("ShutdownTimeout = %s, zero overlay must not overwrite", base.ShutdownTimeout)
	}
	if base.Server.Port != 9090 {
		t.Errorf("Port = %d", base.Server.Port)
	}
	if base.Reasoning.MaxSteps != 8 || base.Reasoning.Timeout != "60s" {
		t.Errorf("Reasoning = %+v", base.Reasoning)
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	cfg := &config.Config{ShutdownTimeout: "45s"}
	if d := cfg.ShutdownTimeoutDuration(); d != 45*time.Second {
		t.Errorf("duration = %v", d)
	}
}

func TestAgentModel(t *testing.T) {
	cfg := &config.Config{}
	if cfg.AgentModel() != "" {
		t.Error("nil agent should yield empty model name")
	}

	cfg.Agent = &gaconfig.AgentConfig{Model: &gaconfig.ModelConfig{Name: "llama3.2"}}
	if cfg.AgentModel() != "llama3.2" {
		t.Errorf("AgentModel = %s", cfg.AgentModel())
	}
}
