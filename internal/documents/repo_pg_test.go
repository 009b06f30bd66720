package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateWritesAllColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := Document{
		ID:               "11111111-1111-1111-1111-111111111111",
		UserID:           "farmer-1",
		Kind:             KindRTC,
		FileName:         "rtc.pdf",
		MimeType:         "application/pdf",
		SizeBytes:        2048,
		StorageKey:       "abc/rtc/uuid_rtc.pdf",
		ExtractionStatus: ExtractionCompleted,
		TextChars:        512,
		CreatedAt:        time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			"rtc",
			doc.FileName,
			doc.MimeType,
			doc.SizeBytes,
			doc.StorageKey,
			"completed",
			doc.TextChars,
			doc.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateWrapsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO documents").WillReturnError(boom)

	err = (&PGRepo{DB: db}).Create(context.Background(), Document{ID: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestPGRepoListByUserScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	newer := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "kind", "file_name", "mime_type", "size_bytes",
		"storage_key", "extraction_status", "text_chars", "created_at",
	}).
		AddRow("doc-2", "farmer-1", "aadhaar", "aadhaar.pdf", "application/pdf", int64(900), "k2", "failed", 0, newer).
		AddRow("doc-1", "farmer-1", "rtc", "rtc.pdf", "application/pdf", int64(2048), "k1", "completed", 512, older)

	mock.ExpectQuery("SELECT id, user_id, kind").
		WithArgs("farmer-1", 100, 0).
		WillReturnRows(rows)

	docs, err := (&PGRepo{DB: db}).ListByUser(context.Background(), "farmer-1", 500, -3)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Kind != KindAadhaar || docs[0].ExtractionStatus != ExtractionFailed {
		t.Fatalf("unexpected first document: %+v", docs[0])
	}
	if docs[1].TextChars != 512 || !docs[1].CreatedAt.Equal(older) {
		t.Fatalf("unexpected second document: %+v", docs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserEmptyIsNotNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT id, user_id, kind").
		WithArgs("farmer-2", 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	docs, err := (&PGRepo{DB: db}).ListByUser(context.Background(), "farmer-2", 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", docs)
	}
}
