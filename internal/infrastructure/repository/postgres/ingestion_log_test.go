package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newLogWithMock(t *testing.T) (*IngestionLog, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &IngestionLog{db: db}, mock, func() { _ = db.Close() }
}

func TestRecordDocumentUpsertsByTopicAndFilename(t *testing.T) {
	log, mock, done := newLogWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO ingested_documents").
		WithArgs("womens_rights", "cedaw.txt", 12, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := log.RecordDocument(context.Background(), "womens_rights", "cedaw.txt", 12); err != nil {
		t.Fatalf("RecordDocument() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCountDocumentsScansCount(t *testing.T) {
	log, mock, done := newLogWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM ingested_documents").
		WithArgs("womens_rights").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := log.CountDocuments(context.Background(), "womens_rights")
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRecordDocumentWrapsExecError(t *testing.T) {
	log, mock, done := newLogWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO ingested_documents").
		WillReturnError(errors.New("connection refused"))

	err := log.RecordDocument(context.Background(), "womens_rights", "cedaw.txt", 12)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestEnsureSchemaRunsDDLUnderAdvisoryLock(t *testing.T) {
	log, mock, done := newLogWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS ingested_documents").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := log.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
