package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/rightslab/edurag/internal/catalog"
	"github.com/rightslab/edurag/internal/config"
	"github.com/rightslab/edurag/internal/core/ports"
	"github.com/rightslab/edurag/internal/core/usecase"
	"github.com/rightslab/edurag/internal/infrastructure/chunking"
	"github.com/rightslab/edurag/internal/infrastructure/corpus/localfs"
	"github.com/rightslab/edurag/internal/infrastructure/llm/ollama"
	"github.com/rightslab/edurag/internal/infrastructure/queue/nats"
	"github.com/rightslab/edurag/internal/infrastructure/repository/postgres"
	"github.com/rightslab/edurag/internal/infrastructure/resilience"
	"github.com/rightslab/edurag/internal/infrastructure/vector/memory"
	"github.com/rightslab/edurag/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config

	Topics   *catalog.Catalog
	Queue    *nats.Queue
	Log      ports.IngestionLog
	Pipeline *usecase.Pipeline

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	topics := catalog.Builtin()
	if cfg.TopicManifestPath != "" {
		loaded, err := catalog.LoadFile(cfg.TopicManifestPath)
		if err != nil {
			return nil, fmt.Errorf("load topic manifest: %w", err)
		}
		topics = loaded
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ingestionLog := postgres.NewIngestionLog(db)
	if err := ingestionLog.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init reindex queue: %w", err)
	}

	source, err := localfs.New(cfg.CorpusDir)
	if err != nil {
		return nil, fmt.Errorf("init corpus source: %w", err)
	}

	runner := resilience.NewRunner(resilience.DefaultPolicy())
	ollamaClient := ollama.New(
		cfg.OllamaURL,
		cfg.OllamaGenModel,
		cfg.OllamaEmbedModel,
		ollama.WithRunner(runner),
		ollama.WithRateLimit(cfg.OllamaRateLimit, cfg.OllamaRateBurst),
	)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	var vectorDB ports.VectorStore
	switch strings.ToLower(cfg.VectorStore) {
	case "memory":
		vectorDB = memory.New()
	default:
		vectorDB = qdrant.New(cfg.QdrantURL, cfg.QdrantPrefix, cfg.QdrantVectorSize)
	}

	chunker := chunking.NewSplitter(cfg.ChunkMinChars)

	ingestUC := usecase.NewIngestTopicUseCase(source, chunker, embedder, vectorDB, ingestionLog)
	retrieveUC := usecase.NewRetrieveUseCase(embedder, vectorDB)
	pipeline := usecase.NewPipeline(source, ingestUC, retrieveUC, generator, cfg.GenerateTimeout)

	return &App{
		Config:   cfg,
		Topics:   topics,
		Queue:    queue,
		Log:      ingestionLog,
		Pipeline: pipeline,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
