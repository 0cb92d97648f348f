package users

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) GetProfile(ctx context.Context, uid string) (Profile, error) {
	const query = `
SELECT id, uid, first_name, last_name, email, address, phone_number, birth_date,
       created_at AS register_date, updated_at, match_rate, is_employed
FROM "user"
WHERE uid = $1
LIMIT 1`
	var p Profile
	var firstName, lastName, address, phone sql.NullString
	var birthDate, updatedAt sql.NullTime
	var matchRate sql.NullFloat64
	var isEmployed sql.NullBool
	err := r.DB.QueryRowContext(ctx, query, uid).Scan(
		&p.ID,
		&p.UID,
		&firstName,
		&lastName,
		&p.Email,
		&address,
		&phone,
		&birthDate,
		&p.RegisterDate,
		&updatedAt,
		&matchRate,
		&isEmployed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.FirstName = stringPtr(firstName)
	p.LastName = stringPtr(lastName)
	p.Address = stringPtr(address)
	p.PhoneNumber = stringPtr(phone)
	if birthDate.Valid {
		p.BirthDate = &birthDate.Time
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	if matchRate.Valid {
		p.MatchRate = &matchRate.Float64
	}
	if isEmployed.Valid {
		p.IsEmployed = &isEmployed.Bool
	}
	return p, nil
}

// ListQuestionTitles returns the canonical profile question titles.
func (r *PGRepo) ListQuestionTitles(ctx context.Context) ([]string, error) {
	const query = `SELECT question FROM user_question ORDER BY id ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		out = append(out, title)
	}
	return out, rows.Err()
}

// ListAnswers returns the user's non-null answers ordered by question serial number.
func (r *PGRepo) ListAnswers(ctx context.Context, uid string) ([]Answer, error) {
	const query = `
SELECT u_q.id, u_q.question, array_to_string(u_a.answer, ', ', '') AS answer
FROM user_answer AS u_a
  LEFT JOIN "user" AS u
    ON u_a.user_id = u.id
  LEFT JOIN user_question AS u_q
    ON u_a.user_question_id = u_q.id
WHERE u.uid = $1
  AND u_a.answer IS NOT NULL
ORDER BY u_q.serial_number ASC`
	rows, err := r.DB.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Answer
	for rows.Next() {
		var a Answer
		var question sql.NullString
		var questionID sql.NullInt64
		var answer sql.NullString
		if err := rows.Scan(&questionID, &question, &answer); err != nil {
			return nil, err
		}
		if !question.Valid {
			continue
		}
		a.QuestionID = questionID.Int64
		a.Question = question.String
		a.Answer = answer.String
		out = append(out, a)
	}
	return out, rows.Err()
}

// LegacyTrackingID returns the raw ext_uniq_id, nil when absent.
func (r *PGRepo) LegacyTrackingID(ctx context.Context, uid string) (*string, error) {
	const query = `SELECT ext_uniq_id FROM user_metrics WHERE uid = $1 LIMIT 1`
	var id sql.NullString
	err := r.DB.QueryRowContext(ctx, query, uid).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return stringPtr(id), nil
}

// CoverLetterPreference returns nil when the user has no settings row.
func (r *PGRepo) CoverLetterPreference(ctx context.Context, uid string) (*bool, error) {
	const query = `
SELECT s.is_generate_cover_letter
FROM settings AS s
  LEFT JOIN "user" AS u
    ON s.user_id = u.id
WHERE u.uid = $1
LIMIT 1`
	var pref sql.NullBool
	err := r.DB.QueryRowContext(ctx, query, uid).Scan(&pref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !pref.Valid {
		return nil, nil
	}
	return &pref.Bool, nil
}

// HasPreloadedResume reports whether a preloaded CV exists for the user's email.
func (r *PGRepo) HasPreloadedResume(ctx context.Context, uid string) (bool, error) {
	const query = `
SELECT EXISTS (
  SELECT 1
  FROM "user" AS u
    JOIN preloaded_cv AS p_c
      ON LOWER(u.email) = LOWER(p_c.email)
  WHERE u.uid = $1
)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, uid).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindDuplicateEmails lists account pairs whose emails match case-insensitively.
// Each pair is reported once, with uid1 > uid2.
func (r *PGRepo) FindDuplicateEmails(ctx context.Context) ([]DuplicatePair, error) {
	const query = `
SELECT DISTINCT LOWER(u1.email) AS email, u1.uid AS uid1, u2.uid AS uid2, u1.email AS email1, u2.email AS email2
FROM "user" AS u1
  JOIN "user" AS u2
    ON LOWER(u1.email) = LOWER(u2.email)
WHERE u1.uid > u2.uid
ORDER BY email, uid1, uid2`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DuplicatePair
	for rows.Next() {
		var p DuplicatePair
		if err := rows.Scan(&p.Email, &p.UID1, &p.UID2, &p.Email1, &p.Email2); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

var _ Repo = (*PGRepo)(nil)
