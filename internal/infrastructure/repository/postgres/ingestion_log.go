package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/rightslab/edurag/internal/core/domain"
)

// IngestionLog records which documents were indexed per topic and how many
// chunks each produced. The vector store is the source of truth for
// retrieval; this table only serves status reporting.
type IngestionLog struct {
	db *sql.DB
}

func NewIngestionLog(db *sql.DB) *IngestionLog {
	return &IngestionLog{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (l *IngestionLog) EnsureSchema(ctx context.Context) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS ingested_documents (
	topic TEXT NOT NULL,
	filename TEXT NOT NULL,
	chunk_count INTEGER NOT NULL,
	ingested_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (topic, filename)
);

CREATE INDEX IF NOT EXISTS idx_ingested_documents_topic ON ingested_documents(topic);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (l *IngestionLog) RecordDocument(ctx context.Context, topic domain.Topic, filename string, chunkCount int) error {
	_, err := l.db.ExecContext(ctx, `
INSERT INTO ingested_documents (topic, filename, chunk_count, ingested_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (topic, filename)
DO UPDATE SET chunk_count = EXCLUDED.chunk_count, ingested_at = EXCLUDED.ingested_at
`, topic.String(), filename, chunkCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record ingested document: %w", err)
	}
	return nil
}

func (l *IngestionLog) CountDocuments(ctx context.Context, topic domain.Topic) (int, error) {
	row := l.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM ingested_documents WHERE topic = $1
`, topic.String())

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count ingested documents: %w", err)
	}
	return count, nil
}
