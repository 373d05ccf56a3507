package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rightslab/edurag/internal/core/domain"
	"github.com/rightslab/edurag/internal/infrastructure/resilience"
)

func fastRunner() *resilience.Runner {
	return resilience.NewRunner(resilience.Policy{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     1.0,
		BreakerEnabled:      false,
	})
}

func TestGeneratorSendsPromptAndTrimsResponse(t *testing.T) {
	var capturedModel, capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedModel, _ = payload["model"].(string)
		capturedPrompt, _ = payload["prompt"].(string)
		if stream, ok := payload["stream"].(bool); !ok || stream {
			t.Fatalf("stream = %v, want false", payload["stream"])
		}
		_, _ = w.Write([]byte(`{"response":"  the answer \n"}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen-model", "embed-model", WithRunner(fastRunner()))
	gen := NewGenerator(client)
	got, err := gen.Generate(context.Background(), "Explain the right to education.")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "the answer" {
		t.Fatalf("Generate() = %q, want trimmed response", got)
	}
	if capturedModel != "gen-model" {
		t.Fatalf("model = %q, want gen-model", capturedModel)
	}
	if !strings.Contains(capturedPrompt, "right to education") {
		t.Fatalf("unexpected prompt: %s", capturedPrompt)
	}
}

func TestEmbedderSendsBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		var payload struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Model != "embed-model" {
			t.Fatalf("model = %q", payload.Model)
		}
		if len(payload.Input) != 2 {
			t.Fatalf("input length = %d, want 2", len(payload.Input))
		}
		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2],[0.3,0.4]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen-model", "embed-model", WithRunner(fastRunner()))
	embedder := NewEmbedder(client)
	vectors, err := embedder.Embed(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 || len(vectors[0]) != 2 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
}

func TestEmbedWrapsServerErrorsAsTemporary(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "model unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, "gen-model", "embed-model", WithRunner(fastRunner()))
	embedder := NewEmbedder(client)
	_, err := embedder.Embed(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("error %v not marked temporary", err)
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("server calls = %d, want retry to exhaust 2 attempts", got)
	}
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unknown model", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "gen-model", "embed-model", WithRunner(fastRunner()))
	gen := NewGenerator(client)
	_, err := gen.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("client error should not be temporary: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("server calls = %d, want 1", got)
	}
}

func TestEmbedQueryReturnsFirstVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[1,2,3]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "gen-model", "embed-model", WithRunner(fastRunner()))
	embedder := NewEmbedder(client)
	vector, err := embedder.EmbedQuery(context.Background(), "question")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("vector length = %d, want 3", len(vector))
	}
}
