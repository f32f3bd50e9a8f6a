package api

import (
	"fmt"
	"math"
	"strings"

	"embed-server/internal/config"
)

// ValidateRequest checks the decoded request shape before any backend
// interaction. Limit numbers in messages come from configuration and are safe
// to show the caller.
func ValidateRequest(req EmbeddingRequest) *Error {
	if req.Model == "" {
		return NewError(CodeInvalidRequest, "Embedding request requires a model.")
	}
	if req.EncodingFormat != "" && req.EncodingFormat != "float" {
		return NewError(CodeInvalidRequest, fmt.Sprintf("Unsupported encoding_format %q.", req.EncodingFormat))
	}
	return nil
}

// ValidateInputs bounds-checks the normalized input batch against the
// configured limits.
func ValidateInputs(texts []string, cfg config.Config) *Error {
	if len(texts) == 0 {
		return NewError(CodeInvalidRequest, "Embedding input list cannot be empty.")
	}
	if len(texts) > cfg.MaxBatchSize {
		return NewError(CodeInvalidRequest, fmt.Sprintf(
			"Embedding input batch size %d exceeds configured limit %d.", len(texts), cfg.MaxBatchSize))
	}
	total := 0
	for i, text := range texts {
		if len(text) > cfg.MaxInputChars {
			return NewError(CodeInvalidRequest, fmt.Sprintf(
				"Embedding input at index %d exceeds configured character limit %d.", i, cfg.MaxInputChars))
		}
		total += len(text)
	}
	if total > cfg.MaxTotalChars {
		return NewError(CodeInvalidRequest, fmt.Sprintf(
			"Total embedding input size %d exceeds configured character limit %d.", total, cfg.MaxTotalChars))
	}
	return nil
}

// PromptTokens estimates token usage as the whitespace-separated word count
// summed over the batch. Reproducible for identical input.
func PromptTokens(texts []string) int {
	total := 0
	for _, text := range texts {
		total += len(strings.Fields(text))
	}
	return total
}

// CheckVectors verifies the backend honored its contract: one vector per
// input, fixed dimension, finite components. A violation is an internal
// error, not a caller error.
func CheckVectors(vecs [][]float32, count, dimension int) *Error {
	if len(vecs) != count {
		return NewError(CodeInternal, "Embedding backend returned mismatched vector count.")
	}
	for i, vec := range vecs {
		if dimension > 0 && len(vec) != dimension {
			return NewError(CodeInternal, fmt.Sprintf(
				"Embedding backend returned invalid vector dimension at index %d.", i))
		}
		for _, v := range vec {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return NewError(CodeInternal, fmt.Sprintf(
					"Embedding backend returned non-finite vector values at index %d.", i))
			}
		}
	}
	return nil
}
