package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"embed-server/internal/config"
)

func testConfig(backendName string) config.Config {
	return config.Config{
		Backend:   backendName,
		ModelName: "test-model",
		Dimension: 64,
	}
}

func TestEmbedWithDeadlineCompletes(t *testing.T) {
	b := new(MockBackend)
	want := [][]float32{{1, 2, 3}}
	b.On("Embed", mock.Anything, []string{"fast"}).Return(want, nil).Once()

	vecs, err := EmbedWithDeadline(context.Background(), b, []string{"fast"}, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 1 || len(vecs[0]) != 3 {
		t.Errorf("expected backend result passed through unchanged, got %v", vecs)
	}
	b.AssertExpectations(t)
}

func TestEmbedWithDeadlineTimeout(t *testing.T) {
	b := new(MockBackend)
	b.On("Embed", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { time.Sleep(500 * time.Millisecond) }).
		Return([][]float32{{1}}, nil)

	start := time.Now()
	_, err := EmbedWithDeadline(context.Background(), b, []string{"slow"}, 20*time.Millisecond)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrDeadlineExceeded) {
		t.Fatalf("expected ErrDeadlineExceeded, got %v", err)
	}
	// The caller must be released at the deadline even though the backend
	// goroutine keeps running.
	if elapsed > 300*time.Millisecond {
		t.Errorf("caller waited %s, expected release near the 20ms deadline", elapsed)
	}
}

func TestEmbedWithDeadlineBackendError(t *testing.T) {
	b := new(MockBackend)
	backendErr := errors.New("inference blew up")
	b.On("Embed", mock.Anything, mock.Anything).Return(nil, backendErr).Once()

	_, err := EmbedWithDeadline(context.Background(), b, []string{"boom"}, time.Second)
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected backend error passed through, got %v", err)
	}
	b.AssertExpectations(t)
}

func TestEmbedWithDeadlineBackendPanic(t *testing.T) {
	b := new(MockBackend)
	b.On("Embed", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { panic("corrupted session") }).
		Return(nil, nil)

	_, err := EmbedWithDeadline(context.Background(), b, []string{"x"}, time.Second)
	if err == nil {
		t.Fatal("expected error from panicking backend")
	}
	if errors.Is(err, ErrDeadlineExceeded) {
		t.Error("a panic is not a timeout")
	}
}

func TestFastEmbedUnsupportedModel(t *testing.T) {
	// An unknown model fails before any model load is attempted.
	if _, err := NewFastEmbed(FastEmbedConfig{Model: "no-such-model"}); err == nil {
		t.Error("expected error for unsupported model")
	}
}

func TestFastEmbedModelTables(t *testing.T) {
	for name, model := range fastEmbedModels {
		if _, ok := fastEmbedDimensions[model]; !ok {
			t.Errorf("model %s has no dimension entry", name)
		}
	}
}
