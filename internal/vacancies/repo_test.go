package vacancies

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeAggregator struct {
	results   [][]interface{}
	err       error
	pipelines []interface{}
}

func (f *fakeAggregator) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error) {
	_ = opts
	f.pipelines = append(f.pipelines, pipeline)
	if f.err != nil {
		return nil, f.err
	}
	docs := f.results[0]
	f.results = f.results[1:]
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func TestResumeStatsDecodesBothAggregations(t *testing.T) {
	start := time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC)
	agg := &fakeAggregator{results: [][]interface{}{
		{
			bson.D{{Key: "_id", Value: true}, {Key: "count", Value: int32(12)}},
			bson.D{{Key: "_id", Value: false}, {Key: "count", Value: int32(4)}},
			bson.D{{Key: "_id", Value: nil}, {Key: "count", Value: int32(99)}},
		},
		{
			bson.D{
				{Key: "startDate", Value: start},
				{Key: "firstDayAppliesCount", Value: int32(3)},
				{Key: "firstWeekAppliesCount", Value: int32(7)},
			},
		},
	}}
	repo := &MongoRepo{Collection: agg}

	stats, err := repo.ResumeStats(context.Background(), 15)
	if err != nil {
		t.Fatalf("ResumeStats: %v", err)
	}
	if stats.Success != 12 || stats.Failed != 4 {
		t.Fatalf("unexpected outcomes: %+v", stats)
	}
	if stats.FirstDay != 3 || stats.FirstWeek != 7 {
		t.Fatalf("unexpected first counts: %+v", stats)
	}
	if stats.StartDate == nil || !stats.StartDate.Equal(start) {
		t.Fatalf("unexpected start date: %v", stats.StartDate)
	}
	if len(agg.pipelines) != 2 {
		t.Fatalf("expected 2 aggregations, got %d", len(agg.pipelines))
	}
}

func TestResumeStatsWithoutApplications(t *testing.T) {
	repo := &MongoRepo{Collection: &fakeAggregator{results: [][]interface{}{{}, {}}}}

	stats, err := repo.ResumeStats(context.Background(), 15)
	if err != nil {
		t.Fatalf("ResumeStats: %v", err)
	}
	if stats != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestResumeStatsPropagatesErrors(t *testing.T) {
	repo := &MongoRepo{Collection: &fakeAggregator{err: errors.New("socket closed")}}
	if _, err := repo.ResumeStats(context.Background(), 1); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPipelinesExcludePlaceholderVacancy(t *testing.T) {
	for name, pipeline := range map[string]bson.A{
		"outcomes": outcomesPipeline(15),
		"first":    firstApplicationsPipeline(15),
	} {
		match := pipeline[0].(bson.D)[0]
		if match.Key != "$match" {
			t.Fatalf("%s: expected $match first, got %s", name, match.Key)
		}
		filter := match.Value.(bson.D)
		if filter[0].Key != "resumeId" || filter[0].Value != int64(15) {
			t.Fatalf("%s: unexpected resume filter %v", name, filter[0])
		}
		ne := filter[1].Value.(bson.D)[0]
		if filter[1].Key != "vacancyId" || ne.Key != "$ne" || ne.Value != placeholderVacancy {
			t.Fatalf("%s: expected placeholder exclusion, got %v", name, filter[1])
		}
	}
}

func stageValue(t *testing.T, pipeline bson.A, op, as string) bson.D {
	t.Helper()
	for _, stage := range pipeline {
		d := stage.(bson.D)
		if d[0].Key != op {
			continue
		}
		body := d[0].Value.(bson.D)
		if as == "" {
			return body
		}
		for _, e := range body {
			if e.Key == "as" && e.Value == as {
				return body
			}
		}
	}
	t.Fatalf("no %s stage %q in pipeline", op, as)
	return nil
}

func field(t *testing.T, d bson.D, key string) interface{} {
	t.Helper()
	for _, e := range d {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("missing key %q in %v", key, d)
	return nil
}

// lookupWindow returns the $expr conditions after the resumeId equality.
func lookupWindow(t *testing.T, pipeline bson.A, as string) bson.A {
	t.Helper()
	lookup := stageValue(t, pipeline, "$lookup", as)
	let := field(t, lookup, "let").(bson.D)
	if got := field(t, let, "startDate"); got != "$isoStartDate" {
		t.Fatalf("%s: startDate bound to %v", as, got)
	}
	inner := field(t, lookup, "pipeline").(bson.A)
	match := inner[0].(bson.D)[0].Value.(bson.D)
	and := field(t, field(t, match, "$expr").(bson.D), "$and").(bson.A)
	if len(and) < 2 {
		t.Fatalf("%s: expected resume filter plus window, got %v", as, and)
	}
	return and[1:]
}

func TestFirstApplicationsWindowsMeasureFromStartDate(t *testing.T) {
	pipeline := firstApplicationsPipeline(15)

	day := lookupWindow(t, pipeline, "firstDayApplies")
	wantDay := bson.A{
		bson.D{{Key: "$eq", Value: bson.A{
			bson.D{{Key: "$dateTrunc", Value: bson.D{{Key: "date", Value: "$respondedAt"}, {Key: "unit", Value: "day"}}}},
			"$$startDate",
		}}},
	}
	if !reflect.DeepEqual(day, wantDay) {
		t.Fatalf("unexpected first-day window:\n got %v\nwant %v", day, wantDay)
	}

	week := lookupWindow(t, pipeline, "firstWeekApplies")
	wantWeek := bson.A{
		bson.D{{Key: "$gte", Value: bson.A{"$respondedAt", "$$startDate"}}},
		bson.D{{Key: "$lt", Value: bson.A{"$respondedAt", bson.D{{Key: "$add", Value: bson.A{"$$startDate", int64(604800000)}}}}}},
	}
	if !reflect.DeepEqual(week, wantWeek) {
		t.Fatalf("unexpected first-week window:\n got %v\nwant %v", week, wantWeek)
	}

	project := stageValue(t, pipeline, "$project", "")
	if _, ok := field(t, project, "isoStartDate").(bson.D); !ok {
		t.Fatalf("expected start day to be truncated before the lookups")
	}
}
