package generatedresumes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// GetByResumeID returns the generated CV linked from the resume.
func (r *PGRepo) GetByResumeID(ctx context.Context, resumeID int64) (GeneratedResume, error) {
	const query = `
SELECT g_c.id, g_c.created_at, g_c.updated_at, g_c.file_url, g_c.source_hash, g_c.status
FROM generated_cv AS g_c
  JOIN resume AS r
    ON r.generated_cv_id = g_c.id
WHERE r.id = $1
LIMIT 1`
	var cv GeneratedResume
	var createdAt, updatedAt sql.NullTime
	var fileURL, sourceHash, status sql.NullString
	err := r.DB.QueryRowContext(ctx, query, resumeID).Scan(
		&cv.ID,
		&createdAt,
		&updatedAt,
		&fileURL,
		&sourceHash,
		&status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GeneratedResume{}, ErrNotFound
		}
		return GeneratedResume{}, err
	}
	if createdAt.Valid {
		t := createdAt.Time
		cv.CreatedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		cv.UpdatedAt = &t
	}
	cv.FileURL = stringPtr(fileURL)
	cv.SourceHash = stringPtr(sourceHash)
	cv.Status = stringPtr(status)
	return cv, nil
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

var _ Repo = (*PGRepo)(nil)
