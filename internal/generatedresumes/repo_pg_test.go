package generatedresumes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGetByResumeID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	created := time.Date(2024, 8, 2, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM generated_cv AS g_c`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "file_url", "source_hash", "status"}).
			AddRow(int64(44), created, nil, "cv/44.pdf", nil, "ready"))

	cv, err := repo.GetByResumeID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByResumeID: %v", err)
	}
	if cv.ID != 44 || cv.CreatedAt == nil || !cv.CreatedAt.Equal(created) {
		t.Fatalf("unexpected cv: %+v", cv)
	}
	if cv.FileURL == nil || *cv.FileURL != "cv/44.pdf" || cv.SourceHash != nil || cv.UpdatedAt != nil {
		t.Fatalf("unexpected nullable columns: %+v", cv)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestGetByResumeIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery(`FROM generated_cv`).WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByResumeID(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
