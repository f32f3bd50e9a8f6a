package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// DefaultAliases are the public model identifiers accepted on the API surface.
// Every alias resolves to the one configured backend model; accepting an alias
// never loads a different model.
var DefaultAliases = []string{
	"nomic-embed-text",
	"nomic-ai/nomic-embed-text-v1.5",
	"nomic-embed-code",
	"nomic-ai/nomic-embed-code",
	"text-embedding-3-small",
}

// Config is the immutable process-lifetime configuration snapshot. It is
// loaded once at startup and only ever read afterwards.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8181"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	ServiceName    string `env:"SERVICE_NAME" envDefault:"embed-server"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"0.1.0"`

	// Embedding backend
	EmbeddingEnabled bool   `env:"EMBEDDING_ENABLED" envDefault:"true"`
	Backend          string `env:"EMBEDDING_BACKEND" envDefault:"deterministic" validate:"oneof=deterministic fastembed"`
	ModelName        string `env:"EMBEDDING_MODEL" envDefault:"nomic-ai/nomic-embed-text-v1.5" validate:"required"`
	Dimension        int    `env:"EMBEDDING_DIMENSION" envDefault:"768" validate:"min=8,max=8192"` // deterministic backend only
	Normalize        bool   `env:"EMBEDDING_NORMALIZE" envDefault:"true"`
	ModelCacheDir    string `env:"MODEL_CACHE_DIR" envDefault:"local_cache"` // fastembed backend only

	// Request limits
	MaxBatchSize   int           `env:"MAX_BATCH_SIZE" envDefault:"64" validate:"min=1,max=2048"`
	MaxInputChars  int           `env:"MAX_INPUT_CHARS" envDefault:"32768" validate:"min=1"`
	MaxTotalChars  int           `env:"MAX_TOTAL_CHARS" envDefault:"262144" validate:"min=1"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	// Telemetry
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

var validate = validator.New()

// Validate checks the snapshot against the struct tag constraints.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// ResolveModel maps a requested public model identifier to the configured
// backend model. The second return is false when the identifier is not an
// accepted alias.
func (c Config) ResolveModel(requested string) (string, bool) {
	if requested == "" {
		return "", false
	}
	if requested == c.ModelName {
		return c.ModelName, true
	}
	for _, alias := range DefaultAliases {
		if requested == alias {
			return c.ModelName, true
		}
	}
	return "", false
}

// PublicModels returns the model identifiers advertised via /v1/models:
// the alias table plus the configured model name, without duplicates.
func (c Config) PublicModels() []string {
	models := make([]string, 0, len(DefaultAliases)+1)
	models = append(models, DefaultAliases...)
	for _, m := range models {
		if m == c.ModelName {
			return models
		}
	}
	return append(models, c.ModelName)
}
