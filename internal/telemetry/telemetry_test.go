package telemetry

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopRecord(t *testing.T) {
	// Must never panic or block.
	Noop{}.Record("m", "ok", 3, 5, time.Millisecond)
	Noop{}.Record("", "internal", 0, -1, 0)
}

func TestPrometheusRecord(t *testing.T) {
	p := NewPrometheus()

	p.Record("nomic-embed-text", "ok", 2, 7, 15*time.Millisecond)
	p.Record("nomic-embed-text", "ok", 3, 4, 5*time.Millisecond)
	p.Record("nomic-embed-text", "invalid_request", 1, -1, time.Millisecond)

	if got := testutil.ToFloat64(p.requests.WithLabelValues("nomic-embed-text", "ok")); got != 2 {
		t.Errorf("expected 2 ok requests, got %f", got)
	}
	if got := testutil.ToFloat64(p.requests.WithLabelValues("nomic-embed-text", "invalid_request")); got != 1 {
		t.Errorf("expected 1 invalid_request, got %f", got)
	}
	if got := testutil.ToFloat64(p.inputTexts.WithLabelValues("nomic-embed-text", "ok")); got != 5 {
		t.Errorf("expected 5 input texts, got %f", got)
	}
}

func TestPrometheusSkipsUncountedTokens(t *testing.T) {
	p := NewPrometheus()

	// Negative prompt tokens were never computed and must not be observed.
	p.Record("m", "invalid_request", 1, -1, time.Millisecond)
	p.Record("m", "ok", 1, 3, time.Millisecond)

	count, err := testutil.GatherAndCount(p.registry, "embed_server_embeddings_prompt_tokens")
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	// Only the ok series should carry a prompt-tokens observation.
	if count != 1 {
		t.Errorf("expected 1 prompt_tokens series, got %d", count)
	}
}

func TestPrometheusHandler(t *testing.T) {
	p := NewPrometheus()
	p.Record("m", "ok", 1, 2, time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200 from metrics handler, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected metrics exposition output")
	}
}
