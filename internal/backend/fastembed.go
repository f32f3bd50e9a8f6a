package backend

import (
	"context"
	"fmt"

	fastembed "github.com/anush008/fastembed-go"
	"golang.org/x/sync/semaphore"
)

// FastEmbedConfig holds configuration for the local-model backend.
type FastEmbedConfig struct {
	// Model is the embedding model name, e.g. BAAI/bge-small-en-v1.5.
	Model string
	// CacheDir is the directory ONNX model files are cached in.
	CacheDir string
	// MaxLength is the maximum input sequence length. Defaults to 512.
	MaxLength int
}

// fastEmbedModels maps accepted model names to fastembed constants.
var fastEmbedModels = map[string]fastembed.EmbeddingModel{
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-small-en":                      fastembed.BGESmallEN,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"BAAI/bge-base-en":                       fastembed.BGEBaseEN,
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
}

// fastEmbedDimensions maps fastembed models to their output vector width.
var fastEmbedDimensions = map[fastembed.EmbeddingModel]int{
	fastembed.BGESmallENV15: 384,
	fastembed.BGESmallEN:    384,
	fastembed.BGEBaseENV15:  768,
	fastembed.BGEBaseEN:     768,
	fastembed.AllMiniLML6V2: 384,
}

const inferenceBatchSize = 256

// FastEmbed wraps one locally loaded ONNX embedding model, created once at
// startup and shared by all requests. The underlying session is not assumed
// safe for concurrent invocation, so calls pass through a single-flight lane;
// this trades throughput for correctness.
type FastEmbed struct {
	model     *fastembed.FlagEmbedding
	modelName string
	dimension int
	lane      *semaphore.Weighted
}

// NewFastEmbed loads the model. An initialization error here leaves the
// embeddings capability unavailable for the process lifetime; the load is
// never retried.
func NewFastEmbed(cfg FastEmbedConfig) (*FastEmbed, error) {
	model, ok := fastEmbedModels[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unsupported fastembed model %q (supported: BAAI/bge-small-en-v1.5, BAAI/bge-base-en-v1.5, sentence-transformers/all-MiniLM-L6-v2)", cfg.Model)
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = "local_cache"
	}
	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 512
	}
	showProgress := false

	flag, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing fastembed model %q: %w", cfg.Model, err)
	}

	return &FastEmbed{
		model:     flag,
		modelName: cfg.Model,
		dimension: fastEmbedDimensions[model],
		lane:      semaphore.NewWeighted(1),
	}, nil
}

func (f *FastEmbed) Name() string      { return "fastembed" }
func (f *FastEmbed) ModelName() string { return f.modelName }
func (f *FastEmbed) Dimension() int    { return f.dimension }

// Embed runs inference for the batch. The call blocks, potentially for
// seconds on large batches, and holds the single-flight lane for its full
// duration.
func (f *FastEmbed) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := f.lane.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for embedding lane: %w", err)
	}
	defer f.lane.Release(1)

	vecs, err := f.model.Embed(texts, inferenceBatchSize)
	if err != nil {
		return nil, fmt.Errorf("fastembed inference: %w", err)
	}
	return vecs, nil
}

func (f *FastEmbed) Close() error {
	if f.model != nil {
		return f.model.Destroy()
	}
	return nil
}
