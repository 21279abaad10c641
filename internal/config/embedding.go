package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvEmbeddingBaseURL    = "EBT_EMBEDDING_BASE_URL"
	EnvEmbeddingModel      = "EBT_EMBEDDING_MODEL"
	EnvEmbeddingToken      = "EBT_EMBEDDING_TOKEN"
	EnvEmbeddingDimensions = "EBT_EMBEDDING_DIMENSIONS"
	EnvEmbeddingTimeout    = "EBT_EMBEDDING_TIMEOUT"
)

func (c *Config) finalizeEmbedding() error {
	e := &c.Embedding

	if e.BaseURL == "" {
		e.BaseURL = "http://localhost:11434"
	}
	if e.Model == "" {
		e.Model = "nomic-embed-text"
	}
	if e.Dimensions == 0 {
		e.Dimensions = 768
	}
	if e.Timeout == "" {
		e.Timeout = "30s"
	}

	if v := os.Getenv(EnvEmbeddingBaseURL); v != "" {
		e.BaseURL = v
	}
	if v := os.Getenv(EnvEmbeddingModel); v != "" {
		e.Model = v
	}
	if v := os.Getenv(EnvEmbeddingToken); v != "" {
		e.Token = v
	}
	if v := os.Getenv(EnvEmbeddingDimensions); v != "" {
		if dims, err := strconv.Atoi(v); err == nil {
			e.Dimensions = dims
		}
	}
	if v := os.Getenv(EnvEmbeddingTimeout); v != "" {
		e.Timeout = v
	}

	if e.Dimensions < 1 {
		return fmt.Errorf("invalid dimensions: %d", e.Dimensions)
	}
	if _, err := time.ParseDuration(e.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
