package resumes

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// ListByUser returns the user's resumes ordered by serial number ascending.
func (r *PGRepo) ListByUser(ctx context.Context, uid string) ([]Resume, error) {
	const query = `
SELECT r.id, r.serial_number, r.speciality, r.cv_file_url, r.status, r.created_at, r.updated_at, r.generated_cv_id
FROM resume AS r
  LEFT JOIN "user" AS u
    ON r.user_id = u.id
WHERE u.uid = $1
ORDER BY r.serial_number ASC`
	rows, err := r.DB.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		var res Resume
		var speciality, fileURL, status sql.NullString
		var updatedAt sql.NullTime
		var generatedCVID sql.NullInt64
		if err := rows.Scan(
			&res.ID,
			&res.SerialNumber,
			&speciality,
			&fileURL,
			&status,
			&res.CreatedAt,
			&updatedAt,
			&generatedCVID,
		); err != nil {
			return nil, err
		}
		res.Speciality = stringPtr(speciality)
		res.CVFileURL = stringPtr(fileURL)
		res.Status = stringPtr(status)
		if updatedAt.Valid {
			t := updatedAt.Time
			res.UpdatedAt = &t
		}
		if generatedCVID.Valid {
			id := generatedCVID.Int64
			res.GeneratedCVID = &id
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ListAnswers returns the resume's answers ordered by question id.
// Rows without a question are dropped.
func (r *PGRepo) ListAnswers(ctx context.Context, resumeID int64) ([]Answer, error) {
	const query = `
SELECT r_q.question, array_to_string(r_a.answer, ', ', '') AS answer
FROM resume_answer AS r_a
  LEFT JOIN resume_question AS r_q
    ON r_a.resume_question_id = r_q.id
WHERE r_a.resume_id = $1
ORDER BY r_q.id ASC`
	rows, err := r.DB.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Answer
	for rows.Next() {
		var question, answer sql.NullString
		if err := rows.Scan(&question, &answer); err != nil {
			return nil, err
		}
		if !question.Valid {
			continue
		}
		out = append(out, Answer{Question: question.String, Answer: stringPtr(answer)})
	}
	return out, rows.Err()
}

// CountSiteApplications counts responded vacancy applications of the user's
// resumes on vacancies hosted by siteHost.
func (r *PGRepo) CountSiteApplications(ctx context.Context, uid, siteHost string) (int64, error) {
	const query = `
SELECT COUNT(r_v.id)
FROM resume_vacancy AS r_v
  LEFT JOIN vacancy AS v
    ON r_v.vacancy_id = v.id
  LEFT JOIN resume AS r
    ON r_v.resume_id = r.id
  LEFT JOIN "user" AS u
    ON r.user_id = u.id
WHERE u.uid = $1
  AND r_v.is_responded IS TRUE
  AND v.site_host = $2`
	var count sql.NullInt64
	if err := r.DB.QueryRowContext(ctx, query, uid, siteHost).Scan(&count); err != nil {
		return 0, err
	}
	return count.Int64, nil
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

var _ Repo = (*PGRepo)(nil)
