package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"embed-server/internal/backend"
	"embed-server/internal/config"
	"embed-server/internal/logger"
	"embed-server/internal/telemetry"
)

// Deps bundles common runtime dependencies for the server. Backend and
// Config are read-only after Build; handlers share them across requests.
type Deps struct {
	Config  config.Config
	Log     *slog.Logger
	Backend backend.Backend
	Metrics telemetry.Recorder
}

// Build loads env, config, and shared components. A backend that fails to
// initialize leaves Deps.Backend nil: the embeddings capability stays
// unavailable for the process lifetime and requests fail fast rather than
// retrying the load.
func Build() (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return Deps{}, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.New(cfg.LogLevel, cfg.ServiceName)

	deps := Deps{Config: cfg, Log: log, Metrics: telemetry.Noop{}}
	if cfg.MetricsEnabled {
		deps.Metrics = telemetry.NewPrometheus()
	}

	if !cfg.EmbeddingEnabled {
		log.Info("embeddings disabled by configuration")
		return deps, nil
	}

	b, err := backend.New(cfg)
	if err != nil {
		log.Error("embedding backend failed to initialize; capability unavailable", "backend", cfg.Backend, "err", err)
		return deps, nil
	}
	log.Info("embedding backend ready", "backend", b.Name(), "model", b.ModelName(), "dimension", b.Dimension())
	deps.Backend = b
	return deps, nil
}
