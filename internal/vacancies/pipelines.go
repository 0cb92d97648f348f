package vacancies

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	collectionName = "resumeVacancy"
	weekMillis     = int64(7 * 24 * 60 * 60 * 1000)
)

// placeholderVacancy marks application records not tied to a real vacancy.
var placeholderVacancy = primitive.NilObjectID

func outcomesPipeline(resumeID int64) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "resumeId", Value: resumeID},
			{Key: "vacancyId", Value: bson.D{{Key: "$ne", Value: placeholderVacancy}}},
			{Key: "respondedAt", Value: bson.D{{Key: "$ne", Value: nil}}},
		}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$isResponded"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

func firstApplicationsPipeline(resumeID int64) bson.A {
	truncDay := func(field string) bson.D {
		return bson.D{{Key: "$dateTrunc", Value: bson.D{
			{Key: "date", Value: field},
			{Key: "unit", Value: "day"},
		}}}
	}
	lookup := func(as string, window bson.A) bson.D {
		conditions := append(bson.A{bson.D{{Key: "$eq", Value: bson.A{"$resumeId", resumeID}}}}, window...)
		return bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionName},
			{Key: "let", Value: bson.D{{Key: "startDate", Value: "$isoStartDate"}}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "isResponded", Value: true},
					{Key: "vacancyId", Value: bson.D{{Key: "$ne", Value: placeholderVacancy}}},
					{Key: "$expr", Value: bson.D{{Key: "$and", Value: conditions}}},
				}}},
				bson.D{{Key: "$count", Value: "n"}},
			}},
			{Key: "as", Value: as},
		}}}
	}

	return bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "resumeId", Value: resumeID},
			{Key: "vacancyId", Value: bson.D{{Key: "$ne", Value: placeholderVacancy}}},
			{Key: "isResponded", Value: true},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "respondedAt", Value: -1}}}},
		bson.D{{Key: "$limit", Value: 1}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "isoStartDate", Value: truncDay("$respondedAt")},
		}}},
		lookup("firstDayApplies", bson.A{
			bson.D{{Key: "$eq", Value: bson.A{truncDay("$respondedAt"), "$$startDate"}}},
		}),
		lookup("firstWeekApplies", bson.A{
			bson.D{{Key: "$gte", Value: bson.A{"$respondedAt", "$$startDate"}}},
			bson.D{{Key: "$lt", Value: bson.A{"$respondedAt", bson.D{{Key: "$add", Value: bson.A{"$$startDate", weekMillis}}}}}},
		}),
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "startDate", Value: "$isoStartDate"},
			{Key: "firstDayAppliesCount", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$firstDayApplies.n", 0}}}},
			{Key: "firstWeekAppliesCount", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$firstWeekApplies.n", 0}}}},
		}}},
	}
}
