package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus records embeddings request metrics on its own registry, exposed
// via Handler for scraping.
type Prometheus struct {
	registry     *prometheus.Registry
	requests     *prometheus.CounterVec
	inputTexts   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	promptTokens *prometheus.HistogramVec
}

// NewPrometheus creates the recorder and registers its collectors.
func NewPrometheus() *Prometheus {
	labels := []string{"model", "status"}
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "embed_server_embeddings_requests_total",
			Help: "Count of /v1/embeddings requests by model and status.",
		}, labels),
		inputTexts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "embed_server_embeddings_input_texts_total",
			Help: "Total number of input texts processed by /v1/embeddings.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "embed_server_embeddings_duration_seconds",
			Help:    "Latency of /v1/embeddings requests.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, labels),
		promptTokens: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "embed_server_embeddings_prompt_tokens",
			Help:    "Estimated prompt token count per /v1/embeddings request.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, labels),
	}
	p.registry.MustRegister(p.requests, p.inputTexts, p.duration, p.promptTokens)
	return p
}

func (p *Prometheus) Record(model, status string, inputCount, promptTokens int, duration time.Duration) {
	labels := prometheus.Labels{"model": model, "status": status}
	p.requests.With(labels).Inc()
	if inputCount > 0 {
		p.inputTexts.With(labels).Add(float64(inputCount))
	}
	p.duration.With(labels).Observe(duration.Seconds())
	if promptTokens >= 0 {
		p.promptTokens.With(labels).Observe(float64(promptTokens))
	}
}

// Handler serves the scrape endpoint for this recorder's registry.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
