package resumes

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestListByUserKeepsQueryOrderAndNulls(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ORDER BY r.serial_number ASC`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "serial_number", "speciality", "cv_file_url", "status", "created_at", "updated_at", "generated_cv_id",
		}).
			AddRow(int64(1), "A", "Go developer", "files/a.pdf", "active", created, created, int64(44)).
			AddRow(int64(2), "B", nil, nil, nil, created, nil, nil))

	list, err := repo.ListByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].SerialNumber != "A" || list[1].SerialNumber != "B" {
		t.Fatalf("unexpected resumes: %+v", list)
	}
	if list[0].GeneratedCVID == nil || *list[0].GeneratedCVID != 44 {
		t.Fatalf("expected generated cv id 44, got %v", list[0].GeneratedCVID)
	}
	if list[1].GeneratedCVID != nil || list[1].CVFileURL != nil || list[1].UpdatedAt != nil {
		t.Fatalf("expected null columns to stay nil: %+v", list[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestListAnswers(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`array_to_string\(r_a.answer, ', ', ''\)`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"question", "answer"}).
			AddRow("Stack", "Go, SQL").
			AddRow("Notes", nil).
			AddRow(nil, "orphan"))

	answers, err := repo.ListAnswers(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListAnswers: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	if answers[0].Answer == nil || *answers[0].Answer != "Go, SQL" {
		t.Fatalf("unexpected first answer: %+v", answers[0])
	}
	if answers[1].Answer != nil {
		t.Fatalf("expected nil answer, got %v", *answers[1].Answer)
	}
}

func TestCountSiteApplications(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`v.site_host = \$2`).
		WithArgs("u-1", "www.talent.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := repo.CountSiteApplications(context.Background(), "u-1", "www.talent.com")
	if err != nil || n != 3 {
		t.Fatalf("expected 3, got %d %v", n, err)
	}
}
