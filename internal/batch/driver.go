package batch

import (
	"context"
	"errors"
	"time"

	"users-report/internal/flatten"
	"users-report/internal/report"
	"users-report/internal/shared/metrics"
	"users-report/internal/shared/telemetry"
)

// Builder produces the report result for one user.
type Builder interface {
	Build(ctx context.Context, uid string) (report.Result, error)
}

// Driver walks the candidate users one at a time.
type Driver struct {
	Builder            Builder
	ExpectedFieldCount int
	Now                func() time.Time
}

// Summary is the outcome of a run. Records holds only records that passed
// the field-count filter, in candidate order.
type Summary struct {
	Candidates int
	Built      int
	Skipped    int
	Failed     int
	Dropped    int
	Records    []*flatten.Object
}

// Run builds every candidate sequentially. A failing user is logged and
// dropped; the batch continues.
func (d *Driver) Run(ctx context.Context, uids []string) (Summary, error) {
	if d == nil || d.Builder == nil {
		return Summary{}, errors.New("batch driver not configured")
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}

	summary := Summary{Candidates: len(uids)}
	metrics.SetUsersTotal(len(uids))

	built := make([]*flatten.Object, 0, len(uids))
	for i, uid := range uids {
		started := now()
		res, err := d.Builder.Build(ctx, uid)
		elapsed := now().Sub(started)
		metrics.ObserveUserDurationMs(float64(elapsed.Milliseconds()))

		fields := map[string]any{
			"uid":        uid,
			"position":   i + 1,
			"total":      len(uids),
			"elapsed_ms": elapsed.Milliseconds(),
		}
		switch {
		case err != nil:
			summary.Failed++
			metrics.IncUserFailed()
			fields["error"] = err.Error()
			telemetry.Error("user failed", fields)
		case res.Skipped():
			summary.Skipped++
			metrics.IncUserSkipped()
			fields["reason"] = res.SkipReason
			telemetry.Info("user skipped", fields)
		default:
			summary.Built++
			metrics.IncUserDone()
			fields["fields"] = res.Record.Len()
			telemetry.Info("user done", fields)
			built = append(built, res.Record)
		}
	}

	summary.Records = FilterByFieldCount(built, d.ExpectedFieldCount)
	summary.Dropped = len(built) - len(summary.Records)
	metrics.AddShapeDropped(summary.Dropped)

	telemetry.Info("batch finished", map[string]any{
		"candidates": summary.Candidates,
		"built":      summary.Built,
		"skipped":    summary.Skipped,
		"failed":     summary.Failed,
		"dropped":    summary.Dropped,
		"kept":       len(summary.Records),
	})
	return summary, nil
}

// FilterByFieldCount keeps records with exactly expected fields. Keys of the
// dropped ones are logged at debug level.
func FilterByFieldCount(records []*flatten.Object, expected int) []*flatten.Object {
	kept := make([]*flatten.Object, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if rec.Len() == expected {
			kept = append(kept, rec)
			continue
		}
		uid, _ := rec.Get("uid")
		telemetry.Debug("record shape mismatch", map[string]any{
			"uid":      uid,
			"fields":   rec.Len(),
			"expected": expected,
			"keys":     rec.Keys(),
		})
	}
	return kept
}
