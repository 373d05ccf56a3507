package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rightslab/edurag/internal/core/domain"
	"github.com/rightslab/edurag/internal/core/ports"
)

// IngestStats summarizes one ingestion pass over a topic.
type IngestStats struct {
	Documents int
	Chunks    int
}

// IngestTopicUseCase reads every document of a topic from the corpus source,
// extracts chunks, embeds them in batch, and upserts them into the topic's
// collection under content-hash identifiers. Re-running it over an unchanged
// corpus does not grow the collection.
type IngestTopicUseCase struct {
	source   ports.CorpusSource
	chunker  ports.Chunker
	embedder ports.Embedder
	vectorDB ports.VectorStore
	log      ports.IngestionLog
}

func NewIngestTopicUseCase(
	source ports.CorpusSource,
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
	log ports.IngestionLog,
) *IngestTopicUseCase {
	return &IngestTopicUseCase{
		source:   source,
		chunker:  chunker,
		embedder: embedder,
		vectorDB: vectorDB,
		log:      log,
	}
}

func (uc *IngestTopicUseCase) LoadTopic(ctx context.Context, topic domain.Topic) (IngestStats, error) {
	docs, err := uc.source.ListDocuments(ctx, topic)
	if err != nil {
		return IngestStats{}, fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return IngestStats{}, domain.WrapError(domain.ErrTopicUnavailable, "ingest topic", errors.New("no documents in corpus"))
	}

	if err := uc.vectorDB.EnsureCollection(ctx, topic); err != nil {
		return IngestStats{}, fmt.Errorf("ensure collection: %w", err)
	}

	var stats IngestStats
	for _, doc := range docs {
		chunkCount, err := uc.ingestDocument(ctx, doc)
		if err != nil {
			return stats, fmt.Errorf("ingest %s: %w", doc.Name, err)
		}
		if chunkCount == 0 {
			slog.Warn("document_yielded_no_chunks", "topic", topic, "document", doc.Name)
			continue
		}
		stats.Documents++
		stats.Chunks += chunkCount
	}

	if stats.Chunks == 0 {
		return stats, domain.WrapError(domain.ErrTopicUnavailable, "ingest topic", errors.New("no usable chunks in corpus"))
	}

	slog.Info("topic_ingested", "topic", topic, "documents", stats.Documents, "chunks", stats.Chunks)
	return stats, nil
}

// ingestDocument is a no-op (not an error) for documents without a single
// paragraph above the minimum length.
func (uc *IngestTopicUseCase) ingestDocument(ctx context.Context, doc domain.SourceDocument) (int, error) {
	texts := uc.chunker.Split(doc.Text)
	if len(texts) == 0 {
		return 0, nil
	}

	chunks := make([]domain.Chunk, len(texts))
	stem := doc.Stem()
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:      domain.ChunkID(stem, i, text),
			Source:  doc.Name,
			Topic:   doc.Topic,
			Ordinal: i,
			Text:    text,
		}
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}

	if err := uc.vectorDB.UpsertChunks(ctx, doc.Topic, chunks, vectors); err != nil {
		return 0, fmt.Errorf("upsert chunks: %w", err)
	}

	uc.recordDocument(ctx, doc, len(chunks))
	return len(chunks), nil
}

// recordDocument is accounting only; a failed write must never fail ingestion.
func (uc *IngestTopicUseCase) recordDocument(ctx context.Context, doc domain.SourceDocument, chunkCount int) {
	if uc.log == nil {
		return
	}
	if err := uc.log.RecordDocument(ctx, doc.Topic, doc.Name, chunkCount); err != nil {
		slog.Warn("ingestion_log_write_failed", "topic", doc.Topic, "document", doc.Name, "error", err)
	}
}
