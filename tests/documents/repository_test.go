package documents_test

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/documents"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/lifecycle"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/pagination"
)

const findDocumentPattern = `SELECT d\.id, .+ FROM public\.documents d WHERE d\.id = \$1`

// fakeStorage is an in-memory stand-in for blob storage.
type fakeStorage struct {
	blobs   map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: make(map[string][]byte)}
}

func (f *fakeStorage) Start(lc *lifecycle.Coordinator) error { return nil }

func (f *fakeStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.blobs[key] = data
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(f.blobs, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.blobs[key]
	return ok, nil
}

func (f *fakeStorage) SignedURL(ctx context.Context, key string) (string, error) {
	return "https://blobs.local/" + key, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRepoWithMock(t *testing.T) (documents.System, sqlmock.Sqlmock, *fakeStorage, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	store := newFakeStorage()
	repo := documents.New(db, store, testLogger(), pagination.Config{})
	return repo, mock, store, func() { _ = db.Close() }
}

func documentColumns() []string {
	return []string{
		"id", "filename", "content_type", "size_bytes", "page_count",
		"storage_key", "status", "uploaded_at", "processed_at", "updated_at",
	}
}

func documentRow(id uuid.UUID, status, storageKey string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(documentColumns()).AddRow([]driver.Value{
		id.String(), "report.pdf", "application/pdf", int64(2048), nil,
		storageKey, status, now, nil, now,
	}...)
}

func TestSetPageCount(t *testing.T) {
	repo, mock, _, done := newRepoWithMock(t)
	defer done()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE documents SET page_count = \$2, updated_at = now\(\) WHERE id = \$1`).
		WithArgs(id, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SetPageCount(context.Background(), id, 4); err != nil {
		t.Fatalf("SetPageCount failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetPageCountNotFound(t *testing.T) {
	repo, mock, _, done := newRepoWithMock(t)
	defer done()

	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE documents SET page_count = \$2`).
		WithArgs(id, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SetPageCount(context.Background(), id, 4)
	if !errors.Is(err, documents.ErrNotFound) {
		t.Errorf("SetPageCount error = %v, want ErrNotFound", err)
	}
}

func TestSetStatus(t *testing.T) {
	repo, mock, _, done := newRepoWithMock(t)
	defer done()

	id := uuid.New()
	mock.ExpectQuery(findDocumentPattern).
		WithArgs(id).
		WillReturnRows(documentRow(id, documents.StatusProcessing, "documents/x"))
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE documents SET status = \$2`).
		WithArgs(id, documents.StatusReview).
		WillReturnRows(documentRow(id, documents.StatusReview, "documents/x"))
	mock.ExpectCommit()

	d, err := repo.SetStatus(context.Background(), id, documents.StatusReview)
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if d.Status != documents.StatusReview {
		t.Errorf("Status = %q, want %q", d.Status, documents.StatusReview)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSetStatusIllegalTransition(t *testing.T) {
	repo, mock, _, done := newRepoWithMock(t)
	defer done()

	id := uuid.New()
	mock.ExpectQuery(findDocumentPattern).
		WithArgs(id).
		WillReturnRows(documentRow(id, documents.StatusPending, "documents/x"))

	_, err := repo.SetStatus(context.Background(), id, documents.StatusCompleted)
	if !errors.Is(err, documents.ErrInvalidStatus) {
		t.Errorf("SetStatus error = %v, want ErrInvalidStatus", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCreateRollsBackBlobOnInsertFailure(t *testing.T) {
	repo, mock, store, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO documents`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), documents.CreateCommand{
		Data:        []byte("%PDF-1.7"),
		Filename:    "report.pdf",
		ContentType: "application/pdf",
	})
	if !errors.Is(err, documents.ErrDuplicate) {
		t.Errorf("Create error = %v, want ErrDuplicate", err)
	}

	if len(store.deleted) != 1 {
		t.Fatalf("deleted blobs = %v, want one compensating delete", store.deleted)
	}
	if len(store.blobs) != 0 {
		t.Errorf("blobs = %v, want empty after compensation", store.blobs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSignedURLLegacyKeyFallback(t *testing.T) {
	repo, mock, store, done := newRepoWithMock(t)
	defer done()

	id := uuid.New()
	legacyKey := fmt.Sprintf("%s_report.pdf", id)
	store.blobs[legacyKey] = []byte("pdf")

	mock.ExpectQuery(findDocumentPattern).
		WithArgs(id).
		WillReturnRows(documentRow(id, documents.StatusReview, "documents/"+id.String()+"/report.pdf"))

	url, err := repo.SignedURL(context.Background(), id)
	if err != nil {
		t.Fatalf("SignedURL failed: %v", err)
	}
	if url != "https://blobs.local/"+legacyKey {
		t.Errorf("url = %q, want signed legacy key", url)
	}
}

func TestSignedURLBlobMissing(t *testing.T) {
	repo, mock, _, done := newRepoWithMock(t)
	defer done()

	id := uuid.New()
	mock.ExpectQuery(findDocumentPattern).
		WithArgs(id).
		WillReturnRows(documentRow(id, documents.StatusReview, "documents/x"))

	_, err := repo.SignedURL(context.Background(), id)
	if !errors.Is(err, documents.ErrBlobMissing) {
		t.Errorf("SignedURL error = %v, want ErrBlobMissing", err)
	}
}
