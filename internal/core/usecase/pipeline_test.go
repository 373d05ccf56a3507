package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/rightslab/edurag/internal/core/domain"
	"github.com/rightslab/edurag/internal/core/ports"
)

// countingSource counts ListDocuments calls to observe lazy materialization.
type countingSource struct {
	corpusFake
	mu    sync.Mutex
	calls map[domain.Topic]int
}

func (s *countingSource) ListDocuments(ctx context.Context, topic domain.Topic) ([]domain.SourceDocument, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[domain.Topic]int)
	}
	s.calls[topic]++
	s.mu.Unlock()
	return s.corpusFake.ListDocuments(ctx, topic)
}

func newTestPipeline(source ports.CorpusSource, store *vectorStoreFake, generator *generatorFake) *Pipeline {
	embedder := &embedderFake{}
	ingest := NewIngestTopicUseCase(source, chunkerFake{}, embedder, store, nil)
	retrieve := NewRetrieveUseCase(embedder, store)
	return NewPipeline(source, ingest, retrieve, generator, 0)
}

func TestPipelineLazyIngestionHappensOnce(t *testing.T) {
	topic := domain.Topic("foundational_rights")
	source := &countingSource{corpusFake: corpusFake{
		topics: []domain.Topic{topic},
		docs: map[domain.Topic][]domain.SourceDocument{
			topic: {{Name: "udhr.txt", Topic: topic, Text: longParagraph("udhr")}},
		},
	}}
	store := newVectorStoreFake()
	store.queryResult = []domain.RetrievedChunk{{Source: "udhr.txt", Text: longParagraph("udhr"), Distance: 0.2}}
	p := newTestPipeline(source, store, &generatorFake{response: "answer"})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Retrieve(context.Background(), "q", topic, 0); err != nil {
				t.Errorf("Retrieve() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if source.calls[topic] != 1 {
		t.Fatalf("expected a single ingestion pass, got %d", source.calls[topic])
	}
	if store.queryLimit != DefaultRetrieveLimit {
		t.Fatalf("expected default retrieve limit %d, got %d", DefaultRetrieveLimit, store.queryLimit)
	}
}

func TestPipelineRetrieveUnavailableTopic(t *testing.T) {
	source := &countingSource{corpusFake: corpusFake{docs: map[domain.Topic][]domain.SourceDocument{}}}
	p := newTestPipeline(source, newVectorStoreFake(), &generatorFake{})

	_, err := p.Retrieve(context.Background(), "q", "indigenous_rights", 3)
	if !domain.IsKind(err, domain.ErrTopicUnavailable) {
		t.Fatalf("expected ErrTopicUnavailable, got %v", err)
	}
}

func TestPipelineLoadAllTopicsBestEffort(t *testing.T) {
	present := domain.Topic("foundational_rights")
	absent := domain.Topic("minority_rights")
	source := &countingSource{corpusFake: corpusFake{
		topics: []domain.Topic{present, absent},
		docs: map[domain.Topic][]domain.SourceDocument{
			present: {{Name: "udhr.txt", Topic: present, Text: longParagraph("udhr")}},
		},
	}}
	store := newVectorStoreFake()
	p := newTestPipeline(source, store, &generatorFake{})

	if err := p.LoadAllTopics(context.Background()); err != nil {
		t.Fatalf("LoadAllTopics() error = %v", err)
	}
	if len(store.entries[present]) == 0 {
		t.Fatalf("expected present topic ingested")
	}
	if !p.isIndexed(present) {
		t.Fatalf("expected present topic marked indexed")
	}
	if p.isIndexed(absent) {
		t.Fatalf("expected absent topic left not-indexed")
	}
}

func TestPipelineGenerateAnswerEndToEnd(t *testing.T) {
	topic := domain.Topic("right_to_education")
	passageText := longParagraph("education")
	source := &countingSource{corpusFake: corpusFake{
		topics: []domain.Topic{topic},
		docs: map[domain.Topic][]domain.SourceDocument{
			topic: {{Name: "education.txt", Topic: topic, Text: passageText}},
		},
	}}
	store := newVectorStoreFake()
	store.queryResult = []domain.RetrievedChunk{{Source: "education.txt", Text: passageText, Distance: 0.15}}
	generator := &generatorFake{response: "Education is a protected right."}
	p := newTestPipeline(source, store, generator)

	answer, err := p.GenerateAnswer(context.Background(), "Is education a right?", topic, domain.DifficultyBeginner)
	if err != nil {
		t.Fatalf("GenerateAnswer() error = %v", err)
	}
	if answer.Text != "Education is a protected right." {
		t.Fatalf("unexpected answer text %q", answer.Text)
	}
	if len(answer.Sources) != 1 || answer.Sources[0] != "education.txt (score=0.150)" {
		t.Fatalf("unexpected sources %v", answer.Sources)
	}
	if !strings.Contains(answer.Rendered(), "Sources: education.txt (score=0.150)") {
		t.Fatalf("expected rendered citation block, got %q", answer.Rendered())
	}
}
