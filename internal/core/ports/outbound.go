package ports

import (
	"context"

	"github.com/rightslab/edurag/internal/core/domain"
)

// CorpusSource enumerates topics and reads their plain-text documents.
// Acquisition and format conversion happen upstream; the source only sees
// (topic, filename, text) triples.
type CorpusSource interface {
	ListTopics(ctx context.Context) ([]domain.Topic, error)
	ListDocuments(ctx context.Context, topic domain.Topic) ([]domain.SourceDocument, error)
}

// Chunker splits raw document text into retrieval-unit candidates.
type Chunker interface {
	Split(text string) []string
}

// Embedder builds vectors for chunks and query text in a shared space with
// fixed dimensionality for the process lifetime.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore maintains one similarity-searchable collection per topic.
// Query returns an empty result, not an error, when the topic has no
// collection or the collection is empty.
type VectorStore interface {
	EnsureCollection(ctx context.Context, topic domain.Topic) error
	UpsertChunks(ctx context.Context, topic domain.Topic, chunks []domain.Chunk, vectors [][]float32) error
	Query(ctx context.Context, topic domain.Topic, queryVector []float32, limit int) ([]domain.RetrievedChunk, error)
}

// TextGenerator is the generative-model capability. Any failure is treated
// uniformly by the core as "generation unavailable".
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// IngestionLog records per-topic ingestion accounting. Best effort: the
// pipeline must not fail when the log is unreachable.
type IngestionLog interface {
	RecordDocument(ctx context.Context, topic domain.Topic, filename string, chunkCount int) error
	CountDocuments(ctx context.Context, topic domain.Topic) (int, error)
}

// ReindexQueue publishes and consumes topic reindex events.
type ReindexQueue interface {
	PublishReindex(ctx context.Context, topic string) error
	SubscribeReindex(ctx context.Context, handler func(context.Context, string) error) error
}
