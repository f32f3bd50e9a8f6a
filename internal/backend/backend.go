// Package backend provides the embedding backends: a deterministic
// hash-based variant and a local ONNX model variant. The variant is chosen
// once at startup from configuration and shared by all requests.
package backend

import (
	"context"
	"fmt"

	"embed-server/internal/config"
)

// Backend generates one embedding vector per input text, in input order,
// with a fixed dimension per instance.
type Backend interface {
	// Name identifies the backend variant.
	Name() string
	// ModelName is the backend model identifier.
	ModelName() string
	// Dimension is the fixed output vector width.
	Dimension() int
	// Embed returns one vector per input text, same order and cardinality.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Close releases backend resources.
	Close() error
}

// New builds the backend selected by configuration.
func New(cfg config.Config) (Backend, error) {
	switch cfg.Backend {
	case "deterministic":
		return NewDeterministic(cfg.ModelName, cfg.Dimension, cfg.Normalize), nil
	case "fastembed":
		return NewFastEmbed(FastEmbedConfig{
			Model:    cfg.ModelName,
			CacheDir: cfg.ModelCacheDir,
		})
	default:
		return nil, fmt.Errorf("invalid EMBEDDING_BACKEND: %s (valid options: deterministic, fastembed)", cfg.Backend)
	}
}
