package vacancies

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Source computes per-resume application statistics.
type Source interface {
	ResumeStats(ctx context.Context, resumeID int64) (Stats, error)
}

// Aggregator is the subset of *mongo.Collection used here.
type Aggregator interface {
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}

// MongoRepo implements Source over the resumeVacancy collection.
type MongoRepo struct {
	Collection Aggregator
}

// NewMongoRepo binds the repo to dbName.resumeVacancy.
func NewMongoRepo(client *mongo.Client, dbName string) *MongoRepo {
	return &MongoRepo{Collection: client.Database(dbName).Collection(collectionName)}
}

type outcomeRow struct {
	Responded *bool `bson:"_id"`
	Count     int64 `bson:"count"`
}

type firstApplicationsRow struct {
	StartDate *time.Time `bson:"startDate"`
	FirstDay  int64      `bson:"firstDayAppliesCount"`
	FirstWeek int64      `bson:"firstWeekAppliesCount"`
}

func (r *MongoRepo) ResumeStats(ctx context.Context, resumeID int64) (Stats, error) {
	var stats Stats

	var outcomes []outcomeRow
	if err := r.aggregate(ctx, outcomesPipeline(resumeID), &outcomes); err != nil {
		return Stats{}, fmt.Errorf("resume %d outcomes: %w", resumeID, err)
	}
	for _, row := range outcomes {
		if row.Responded == nil {
			continue
		}
		if *row.Responded {
			stats.Success = row.Count
		} else {
			stats.Failed = row.Count
		}
	}

	var first []firstApplicationsRow
	if err := r.aggregate(ctx, firstApplicationsPipeline(resumeID), &first); err != nil {
		return Stats{}, fmt.Errorf("resume %d first applications: %w", resumeID, err)
	}
	if len(first) > 0 {
		stats.FirstDay = first[0].FirstDay
		stats.FirstWeek = first[0].FirstWeek
		if first[0].StartDate != nil {
			start := first[0].StartDate.UTC()
			stats.StartDate = &start
		}
	}
	return stats, nil
}

func (r *MongoRepo) aggregate(ctx context.Context, pipeline interface{}, out interface{}) error {
	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

var _ Source = (*MongoRepo)(nil)
