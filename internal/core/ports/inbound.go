package ports

import (
	"context"

	"github.com/rightslab/edurag/internal/core/domain"
)

// AnswerService is the inbound contract consumed by the HTTP layer.
type AnswerService interface {
	GenerateAnswer(ctx context.Context, query string, topic domain.Topic, difficulty domain.Difficulty) (*domain.Answer, error)
	Retrieve(ctx context.Context, query string, topic domain.Topic, limit int) ([]domain.RetrievedChunk, error)
}

// TopicLoader is the inbound contract for corpus ingestion.
type TopicLoader interface {
	LoadTopic(ctx context.Context, topic domain.Topic) error
	LoadAllTopics(ctx context.Context) error
}
