package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rightslab/edurag/internal/core/domain"
)

func TestRetrieveEmbedsQueryOnce(t *testing.T) {
	embedder := &embedderFake{}
	store := newVectorStoreFake()
	store.queryResult = []domain.RetrievedChunk{{Source: "udhr.txt", Distance: 0.2}}
	uc := NewRetrieveUseCase(embedder, store)

	chunks, err := uc.Retrieve(context.Background(), "what are human rights", "foundational_rights", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if len(embedder.queries) != 1 || embedder.queries[0] != "what are human rights" {
		t.Fatalf("expected single query embedding, got %v", embedder.queries)
	}
	if store.queryLimit != 3 {
		t.Fatalf("expected limit 3, got %d", store.queryLimit)
	}
}

func TestRetrieveEmbedError(t *testing.T) {
	uc := NewRetrieveUseCase(&embedderFake{err: errors.New("embed fail")}, newVectorStoreFake())
	if _, err := uc.Retrieve(context.Background(), "q", "foundational_rights", 3); err == nil {
		t.Fatalf("expected error")
	}
}
