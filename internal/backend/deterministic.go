package backend

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

// Deterministic produces stable hash-derived vectors of a configured
// dimension. The same text always yields the same vector. It is stateless
// and safe for concurrent use; used for testing and as a control backend.
type Deterministic struct {
	model     string
	dimension int
	normalize bool
}

// NewDeterministic creates a deterministic backend.
func NewDeterministic(model string, dimension int, normalize bool) *Deterministic {
	return &Deterministic{model: model, dimension: dimension, normalize: normalize}
}

func (d *Deterministic) Name() string      { return "deterministic" }
func (d *Deterministic) ModelName() string { return d.model }
func (d *Deterministic) Dimension() int    { return d.dimension }

func (d *Deterministic) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = d.vectorize(text)
	}
	return vecs, nil
}

// vectorize derives each component from sha256(text:index), mapped into
// [-1, 1). Empty text yields the zero vector.
func (d *Deterministic) vectorize(text string) []float32 {
	vec := make([]float32, d.dimension)
	if text == "" {
		return vec
	}
	for i := range vec {
		digest := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", text, i)))
		raw := binary.BigEndian.Uint32(digest[:4])
		vec[i] = float32(float64(raw)/float64(1<<31) - 1.0)
	}
	if d.normalize {
		l2Normalize(vec)
	}
	return vec
}

func (d *Deterministic) Close() error { return nil }

func l2Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
