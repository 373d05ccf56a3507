package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rightslab/edurag/internal/core/domain"
)

func TestEnsureCollectionCreatesPrefixedCollection(t *testing.T) {
	var capturedPath string
	var capturedBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&capturedBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"result":true}`))
	}))
	defer server.Close()

	store := New(server.URL, "edurag_", 768)
	if err := store.EnsureCollection(context.Background(), "womens_rights"); err != nil {
		t.Fatalf("EnsureCollection() error = %v", err)
	}
	if capturedPath != "/collections/edurag_womens_rights" {
		t.Fatalf("path = %q", capturedPath)
	}
	vectors, _ := capturedBody["vectors"].(map[string]any)
	if vectors["distance"] != "Cosine" {
		t.Fatalf("distance = %v, want Cosine", vectors["distance"])
	}
	if size, _ := vectors["size"].(float64); int(size) != 768 {
		t.Fatalf("size = %v, want 768", vectors["size"])
	}
}

func TestEnsureCollectionToleratesConflictAndCaches(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	store := New(server.URL, "edurag_", 768)
	for i := 0; i < 3; i++ {
		if err := store.EnsureCollection(context.Background(), "womens_rights"); err != nil {
			t.Fatalf("EnsureCollection() error = %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("server calls = %d, want 1 (ensured state cached)", calls)
	}
}

func TestUpsertChunksUsesDeterministicPointIDs(t *testing.T) {
	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}
	var batches [][]point
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Points []point `json:"points"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		batches = append(batches, payload.Points)
		_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
	}))
	defer server.Close()

	store := New(server.URL, "edurag_", 2)
	chunks := []domain.Chunk{
		{ID: "udhr_c0_ab12", Source: "udhr.txt", Topic: "foundational_rights", Ordinal: 0, Text: "Article 1."},
	}
	vectors := [][]float32{{0.1, 0.2}}

	for i := 0; i < 2; i++ {
		if err := store.UpsertChunks(context.Background(), "foundational_rights", chunks, vectors); err != nil {
			t.Fatalf("UpsertChunks() error = %v", err)
		}
	}

	if len(batches) != 2 {
		t.Fatalf("batches = %d, want 2", len(batches))
	}
	if batches[0][0].ID != batches[1][0].ID {
		t.Fatalf("point id not deterministic: %q vs %q", batches[0][0].ID, batches[1][0].ID)
	}
	payload := batches[0][0].Payload
	if payload["chunk_id"] != "udhr_c0_ab12" || payload["source"] != "udhr.txt" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestUpsertChunksRejectsVectorMismatch(t *testing.T) {
	store := New("http://unused", "edurag_", 2)
	err := store.UpsertChunks(context.Background(), "foundational_rights",
		[]domain.Chunk{{ID: "a"}, {ID: "b"}}, [][]float32{{0.1}})
	if err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestQueryConvertsScoresToDistances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[
			{"score":0.9,"payload":{"source":"a.txt","topic":"womens_rights","chunk_index":2,"text":"alpha","chunk_id":"a_c2_x"}},
			{"score":0.7,"payload":{"source":"b.txt","topic":"womens_rights","chunk_index":0,"text":"beta","chunk_id":"b_c0_y"}}
		]}`))
	}))
	defer server.Close()

	store := New(server.URL, "edurag_", 2)
	got, err := store.Query(context.Background(), "womens_rights", []float32{0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if got[0].Source != "a.txt" {
		t.Fatalf("closest result = %q, want a.txt", got[0].Source)
	}
	if diff := got[0].Distance - 0.1; diff < -1e-9 || diff > 1e-9 {
		t.Fatalf("distance = %v, want 0.1", got[0].Distance)
	}
	if got[0].ChunkIndex != 2 {
		t.Fatalf("chunk index = %d, want 2", got[0].ChunkIndex)
	}
}

func TestQueryMissingCollectionReturnsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	store := New(server.URL, "edurag_", 2)
	got, err := store.Query(context.Background(), "never_indexed", []float32{0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("results = %d, want 0", len(got))
	}
}
