package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"users-report/internal/flatten"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// ListMetricPayloads returns register and email_retention payloads, oldest first.
func (r *PGRepo) ListMetricPayloads(ctx context.Context, uid string) ([]*flatten.Object, error) {
	const query = `
SELECT data
FROM events
WHERE uid = $1
  AND title IN ($2, $3)
ORDER BY happened_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, uid, TitleRegister, TitleEmailRetention)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*flatten.Object
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		payload, err := DecodePayload(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, payload)
	}
	return out, rows.Err()
}

// ListPurchases returns purchase events, oldest first.
func (r *PGRepo) ListPurchases(ctx context.Context, uid string) ([]Purchase, error) {
	const query = `
SELECT happened_at, data
FROM events
WHERE title = $1
  AND uid = $2
ORDER BY happened_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, TitlePurchase, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Purchase
	for rows.Next() {
		var p Purchase
		var raw []byte
		if err := rows.Scan(&p.HappenedAt, &raw); err != nil {
			return nil, err
		}
		data, err := DecodePayload(raw)
		if err != nil {
			return nil, fmt.Errorf("purchase payload: %w", err)
		}
		p.Value = numberField(data, "value")
		p.IsAuto = truthy(field(data, "is_auto"))
		p.Currency = stringField(data, "currency")
		p.InvoiceID = stringField(data, "invoice_id")
		p.ProductID = textField(data, "product_id")
		p.ProductTitle = textField(data, "product_title")
		p.SubscriptionID = textField(data, "subscription_id")
		out = append(out, p)
	}
	return out, rows.Err()
}

// FirstCancellation returns the earliest cancellation event, nil when none exists.
func (r *PGRepo) FirstCancellation(ctx context.Context, uid string) (*Cancellation, error) {
	const query = `
SELECT happened_at, data
FROM events
WHERE title = $1
  AND uid = $2
ORDER BY happened_at ASC, id ASC
LIMIT 1`
	var c Cancellation
	var raw []byte
	err := r.DB.QueryRowContext(ctx, query, TitleSubscriptionCancel, uid).Scan(&c.HappenedAt, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	data, err := DecodePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("cancellation payload: %w", err)
	}
	c.Reason = textField(data, "reason")
	c.Comment = textField(data, "comment")
	c.Feedback = textField(data, "feedback")
	return &c, nil
}

// ListSurveys returns nps_1 and nps_2 events, oldest first.
func (r *PGRepo) ListSurveys(ctx context.Context, uid string) ([]Survey, error) {
	const query = `
SELECT title, data
FROM events
WHERE uid = $1
  AND title IN ($2, $3)
ORDER BY happened_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, uid, TitleNPS1, TitleNPS2)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Survey
	for rows.Next() {
		var s Survey
		var raw []byte
		if err := rows.Scan(&s.Title, &raw); err != nil {
			return nil, err
		}
		data, err := DecodePayload(raw)
		if err != nil {
			return nil, fmt.Errorf("survey payload: %w", err)
		}
		s.Answers = listField(data, "answers")
		out = append(out, s)
	}
	return out, rows.Err()
}

// HasResumeDownload reports whether a resume_download event happened strictly
// before or strictly after at.
func (r *PGRepo) HasResumeDownload(ctx context.Context, uid string, dir Direction, at time.Time) (bool, error) {
	const before = `
SELECT EXISTS (
  SELECT 1 FROM events WHERE uid = $1 AND title = $2 AND happened_at < $3
)`
	const after = `
SELECT EXISTS (
  SELECT 1 FROM events WHERE uid = $1 AND title = $2 AND happened_at > $3
)`
	query := before
	if dir == After {
		query = after
	}
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, uid, TitleResumeDownload, at).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

var _ Repo = (*PGRepo)(nil)
