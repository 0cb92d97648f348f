package events

import (
	"context"
	"time"

	"users-report/internal/flatten"
)

// Direction selects events strictly before or strictly after a point in time.
type Direction int

const (
	Before Direction = iota
	After
)

// Repo reads analytics events.
type Repo interface {
	ListMetricPayloads(ctx context.Context, uid string) ([]*flatten.Object, error)
	ListPurchases(ctx context.Context, uid string) ([]Purchase, error)
	FirstCancellation(ctx context.Context, uid string) (*Cancellation, error)
	ListSurveys(ctx context.Context, uid string) ([]Survey, error)
	HasResumeDownload(ctx context.Context, uid string, dir Direction, at time.Time) (bool, error)
}
