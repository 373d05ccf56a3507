package usecase

import (
	"context"
	"fmt"

	"github.com/rightslab/edurag/internal/core/domain"
	"github.com/rightslab/edurag/internal/core/ports"
)

// DefaultRetrieveLimit bounds general retrieval when the caller passes no
// candidate count.
const DefaultRetrieveLimit = 6

// RetrieveUseCase embeds a query once and runs a nearest-neighbor search
// against the topic's collection.
type RetrieveUseCase struct {
	embedder ports.Embedder
	vectorDB ports.VectorStore
}

func NewRetrieveUseCase(embedder ports.Embedder, vectorDB ports.VectorStore) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

func (uc *RetrieveUseCase) Retrieve(
	ctx context.Context,
	query string,
	topic domain.Topic,
	limit int,
) ([]domain.RetrievedChunk, error) {
	if limit <= 0 {
		limit = DefaultRetrieveLimit
	}

	queryVector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	chunks, err := uc.vectorDB.Query(ctx, topic, queryVector, limit)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}
	return chunks, nil
}
