package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rightslab/edurag/internal/core/domain"
	"github.com/rightslab/edurag/internal/core/ports"
)

// Pipeline is the retrieval-augmented generation facade consumed by the HTTP
// layer. It owns topic discovery and per-topic index state: a topic moves
// from not-indexed to indexed on its first successful ingestion (explicit
// LoadTopic or lazy trigger from Retrieve) and never transitions back within
// a process lifetime.
//
// The instance is constructed once by the composition root and injected into
// callers; there is no package-level singleton.
type Pipeline struct {
	source   ports.CorpusSource
	ingest   *IngestTopicUseCase
	retrieve *RetrieveUseCase
	answer   *AnswerUseCase

	mu      sync.Mutex
	indexed map[domain.Topic]bool
	locks   map[domain.Topic]*sync.Mutex
}

func NewPipeline(
	source ports.CorpusSource,
	ingest *IngestTopicUseCase,
	retrieve *RetrieveUseCase,
	generator ports.TextGenerator,
	genTimeout time.Duration,
) *Pipeline {
	p := &Pipeline{
		source:   source,
		ingest:   ingest,
		retrieve: retrieve,
		indexed:  make(map[domain.Topic]bool),
		locks:    make(map[domain.Topic]*sync.Mutex),
	}
	p.answer = NewAnswerUseCase(p, generator, genTimeout)
	return p
}

// LoadAllTopics discovers topics under the corpus root and ingests each.
// Topics without ingestible documents are skipped with a warning; aggregate
// success is best effort.
func (p *Pipeline) LoadAllTopics(ctx context.Context) error {
	topics, err := p.source.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("discover topics: %w", err)
	}
	if len(topics) == 0 {
		slog.Warn("no_topics_discovered")
		return nil
	}

	for _, topic := range topics {
		if err := p.LoadTopic(ctx, topic); err != nil {
			if domain.IsKind(err, domain.ErrTopicUnavailable) {
				slog.Warn("topic_skipped", "topic", topic, "reason", err)
				continue
			}
			slog.Error("topic_ingestion_failed", "topic", topic, "error", err)
		}
	}
	return nil
}

// LoadTopic ingests one topic. Safe for concurrent callers: ingestion for a
// topic is serialized behind a per-topic lock, and content-hash chunk ids
// keep replays idempotent anyway.
func (p *Pipeline) LoadTopic(ctx context.Context, topic domain.Topic) error {
	lock := p.topicLock(topic)
	lock.Lock()
	defer lock.Unlock()

	if _, err := p.ingest.LoadTopic(ctx, topic); err != nil {
		return err
	}
	p.markIndexed(topic)
	return nil
}

// Retrieve returns ranked passages for a topic, materializing the topic's
// index on first access.
func (p *Pipeline) Retrieve(
	ctx context.Context,
	query string,
	topic domain.Topic,
	limit int,
) ([]domain.RetrievedChunk, error) {
	if err := p.ensureIndexed(ctx, topic); err != nil {
		return nil, err
	}
	return p.retrieve.Retrieve(ctx, query, topic, limit)
}

// GenerateAnswer produces the final cited answer for a query.
func (p *Pipeline) GenerateAnswer(
	ctx context.Context,
	query string,
	topic domain.Topic,
	difficulty domain.Difficulty,
) (*domain.Answer, error) {
	return p.answer.GenerateAnswer(ctx, query, topic, difficulty)
}

func (p *Pipeline) ensureIndexed(ctx context.Context, topic domain.Topic) error {
	if p.isIndexed(topic) {
		return nil
	}

	lock := p.topicLock(topic)
	lock.Lock()
	defer lock.Unlock()

	// Another request may have finished ingestion while we waited.
	if p.isIndexed(topic) {
		return nil
	}
	if _, err := p.ingest.LoadTopic(ctx, topic); err != nil {
		return err
	}
	p.markIndexed(topic)
	return nil
}

func (p *Pipeline) isIndexed(topic domain.Topic) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexed[topic]
}

func (p *Pipeline) markIndexed(topic domain.Topic) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indexed[topic] = true
}

func (p *Pipeline) topicLock(topic domain.Topic) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.locks[topic]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[topic] = lock
	}
	return lock
}
