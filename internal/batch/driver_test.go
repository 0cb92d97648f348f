package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users-report/internal/flatten"
	"users-report/internal/report"
)

type stubBuilder struct {
	results map[string]report.Result
	errs    map[string]error
	seen    []string
}

func (s *stubBuilder) Build(ctx context.Context, uid string) (report.Result, error) {
	s.seen = append(s.seen, uid)
	if err := s.errs[uid]; err != nil {
		return report.Result{}, err
	}
	return s.results[uid], nil
}

func record(uid string, extra int) *flatten.Object {
	o := flatten.NewObject()
	o.Set("uid", uid)
	for i := 0; i < extra; i++ {
		o.Set(string(rune('a'+i)), i)
	}
	return o
}

func fixedClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(5 * time.Millisecond)
		return t
	}
}

func TestRunCollectsRecordsInOrder(t *testing.T) {
	b := &stubBuilder{
		results: map[string]report.Result{
			"u-1": {UID: "u-1", Record: record("u-1", 2)},
			"u-2": {UID: "u-2", SkipReason: report.SkipExcludedEmail},
			"u-4": {UID: "u-4", Record: record("u-4", 2)},
			"u-5": {UID: "u-5", Record: record("u-5", 1)},
		},
		errs: map[string]error{"u-3": errors.New("query failed")},
	}
	d := &Driver{Builder: b, ExpectedFieldCount: 3, Now: fixedClock()}

	summary, err := d.Run(context.Background(), []string{"u-1", "u-2", "u-3", "u-4", "u-5"})
	require.NoError(t, err)

	assert.Equal(t, []string{"u-1", "u-2", "u-3", "u-4", "u-5"}, b.seen)
	assert.Equal(t, 5, summary.Candidates)
	assert.Equal(t, 3, summary.Built)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Dropped)
	require.Len(t, summary.Records, 2)
	first, _ := summary.Records[0].Get("uid")
	second, _ := summary.Records[1].Get("uid")
	assert.Equal(t, "u-1", first)
	assert.Equal(t, "u-4", second)
}

func TestRunWithoutCandidates(t *testing.T) {
	d := &Driver{Builder: &stubBuilder{}, ExpectedFieldCount: 126}

	summary, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, summary.Records)
	assert.Zero(t, summary.Built)
}

func TestRunRequiresBuilder(t *testing.T) {
	_, err := (&Driver{}).Run(context.Background(), []string{"u-1"})
	assert.Error(t, err)
}

func TestFilterByFieldCount(t *testing.T) {
	in := []*flatten.Object{record("a", 1), nil, record("b", 3), record("c", 1)}

	out := FilterByFieldCount(in, 2)
	require.Len(t, out, 2)
	for _, rec := range out {
		assert.Equal(t, 2, rec.Len())
	}
}
