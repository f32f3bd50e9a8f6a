// Package api defines the OpenAI-compatible wire types, the canonical error
// taxonomy, and the request validation rules for the embeddings endpoint.
package api

import (
	"encoding/json"
	"fmt"
)

// InputList is the request input union: a single JSON string or an array of
// strings, normalized to an ordered slice. Any non-string element is rejected
// at decode time.
type InputList []string

func (in *InputList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*in = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*in = InputList{single}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("input must be a string or an array of strings")
	}
	out := make(InputList, len(raw))
	for i, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			return fmt.Errorf("input element at index %d is not a string", i)
		}
		out[i] = s
	}
	*in = out
	return nil
}

// EmbeddingRequest is the OpenAI-compatible embeddings request body.
type EmbeddingRequest struct {
	Model          string    `json:"model"`
	Input          InputList `json:"input"`
	EncodingFormat string    `json:"encoding_format,omitempty"`
}

// EmbeddingData is one embedding result, positioned by input order.
type EmbeddingData struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// Usage summarizes token accounting for the batch.
type Usage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// EmbeddingResponse is the success envelope for /v1/embeddings.
type EmbeddingResponse struct {
	Object string          `json:"object"`
	Model  string          `json:"model"`
	Data   []EmbeddingData `json:"data"`
	Usage  Usage           `json:"usage"`
}

// ModelInfo is one entry in the /v1/models listing.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelListResponse is the /v1/models envelope.
type ModelListResponse struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

// HealthResponse reports service and backend readiness.
type HealthResponse struct {
	Status           string `json:"status"`
	Service          string `json:"service"`
	Version          string `json:"version"`
	Backend          string `json:"backend"`
	EmbeddingEnabled bool   `json:"embedding_enabled"`
}

// AssembleEmbeddings builds the result entries in input order, one per vector.
// Duplicate inputs each keep their own entry.
func AssembleEmbeddings(vecs [][]float32) []EmbeddingData {
	data := make([]EmbeddingData, len(vecs))
	for i, vec := range vecs {
		data[i] = EmbeddingData{Object: "embedding", Index: i, Embedding: vec}
	}
	return data
}
