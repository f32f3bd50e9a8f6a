package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"embed-server/internal/api"
	"embed-server/internal/app"
	"embed-server/internal/backend"
	"embed-server/internal/httputil"
	"embed-server/internal/telemetry"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	if deps.Backend != nil {
		defer deps.Backend.Close()
	}

	// Router timeout sits above the backend deadline so the deadline
	// supervisor decides timeouts, not the middleware.
	r := httputil.NewRouter(deps.Log, deps.Config.BackendTimeout+30*time.Second)

	r.Get("/health", healthHandler(deps))
	r.Get("/v1/models", modelsHandler(deps))
	r.Post("/v1/embeddings", embeddingsHandler(deps))
	if prom, ok := deps.Metrics.(*telemetry.Prometheus); ok {
		r.Handle("/metrics", prom.Handler())
	}

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("embedding server listening", "addr", addr, "backend", deps.Config.Backend)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

// healthHandler reports ok iff embeddings are enabled and the backend
// initialized successfully.
func healthHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := api.HealthResponse{
			Status:           "error",
			Service:          deps.Config.ServiceName,
			Version:          deps.Config.ServiceVersion,
			Backend:          "none",
			EmbeddingEnabled: deps.Config.EmbeddingEnabled,
		}
		if deps.Config.EmbeddingEnabled && deps.Backend != nil {
			resp.Status = "ok"
			resp.Backend = deps.Backend.Name()
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

// modelsHandler lists the advertised model aliases; empty when the
// embeddings capability is unavailable.
func modelsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := api.ModelListResponse{Object: "list", Data: []api.ModelInfo{}}
		if deps.Config.EmbeddingEnabled && deps.Backend != nil {
			created := time.Now().Unix()
			for _, id := range deps.Config.PublicModels() {
				resp.Data = append(resp.Data, api.ModelInfo{
					ID:      id,
					Object:  "model",
					Created: created,
					OwnedBy: deps.Config.ServiceName,
				})
			}
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

// embeddingsHandler is the request pipeline: decode, validate, resolve the
// alias, run the backend under a deadline, verify its output, assemble the
// response. Every path records exactly one telemetry sample.
func embeddingsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		record := func(model, status string, inputCount, promptTokens int) {
			deps.Metrics.Record(model, status, inputCount, promptTokens, time.Since(started))
		}

		var req api.EmbeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			record(req.Model, api.CodeInvalidRequest, 0, -1)
			httputil.WriteError(deps.Log, w, api.NewError(api.CodeInvalidRequest,
				"Request body must be a JSON object with model and input fields."))
			return
		}

		if !deps.Config.EmbeddingEnabled {
			record(req.Model, api.CodeUpstreamError, 0, -1)
			httputil.WriteError(deps.Log, w, api.NewError(api.CodeUpstreamError, "Embeddings are disabled."))
			return
		}

		if verr := api.ValidateRequest(req); verr != nil {
			record(req.Model, verr.Code, len(req.Input), -1)
			httputil.WriteError(deps.Log, w, verr)
			return
		}

		resolved, ok := deps.Config.ResolveModel(req.Model)
		if !ok {
			record(req.Model, api.CodeInvalidRequest, len(req.Input), -1)
			httputil.WriteError(deps.Log, w, api.NewError(api.CodeInvalidRequest,
				fmt.Sprintf("Unsupported embedding model %q.", req.Model)))
			return
		}

		if deps.Backend == nil {
			record(resolved, api.CodeUpstreamError, len(req.Input), -1)
			httputil.WriteError(deps.Log, w, api.NewError(api.CodeUpstreamError, "Embedding backend is unavailable."))
			return
		}

		texts := []string(req.Input)
		if verr := api.ValidateInputs(texts, deps.Config); verr != nil {
			record(resolved, verr.Code, len(texts), -1)
			httputil.WriteError(deps.Log, w, verr)
			return
		}
		promptTokens := api.PromptTokens(texts)

		vecs, err := backend.EmbedWithDeadline(r.Context(), deps.Backend, texts, deps.Config.BackendTimeout)
		if errors.Is(err, backend.ErrDeadlineExceeded) {
			deps.Log.Warn("embedding generation timed out", "model", resolved, "inputs", len(texts))
			record(resolved, api.CodeUpstreamTimeout, len(texts), promptTokens)
			httputil.WriteError(deps.Log, w, api.NewError(api.CodeUpstreamTimeout, "Embedding backend timed out."))
			return
		}
		if err != nil {
			deps.Log.Error("embedding generation failed", "model", resolved, "err", err)
			record(resolved, api.CodeInternal, len(texts), promptTokens)
			httputil.WriteError(deps.Log, w, api.NewError(api.CodeInternal, "Embedding generation failed."))
			return
		}

		if cerr := api.CheckVectors(vecs, len(texts), deps.Backend.Dimension()); cerr != nil {
			deps.Log.Error("embedding backend contract violation", "model", resolved, "err", cerr)
			record(resolved, cerr.Code, len(texts), promptTokens)
			httputil.WriteError(deps.Log, w, cerr)
			return
		}

		record(resolved, "ok", len(texts), promptTokens)
		httputil.WriteJSON(w, http.StatusOK, api.EmbeddingResponse{
			Object: "list",
			Model:  req.Model,
			Data:   api.AssembleEmbeddings(vecs),
			Usage:  api.Usage{PromptTokens: promptTokens, TotalTokens: promptTokens},
		})
	}
}
