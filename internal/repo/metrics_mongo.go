package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoMetricsRepository struct {
	orders *mongo.Collection
}

func NewMongoMetricsRepository(db *mongo.Database) *MongoMetricsRepository {
	return &MongoMetricsRepository{orders: db.Collection(orderCollectionName)}
}

func (m OrderMatch) filter() bson.M {
	match := bson.M{}
	date := bson.M{}
	if m.From != nil {
		date["$gte"] = *m.From
	}
	if m.To != nil {
		date["$lte"] = *m.To
	}
	if len(date) > 0 {
		match["date"] = date
	}
	if m.ByProducts {
		products := m.Products
		if products == nil {
			products = []primitive.ObjectID{}
		}
		match["products"] = bson.M{"$in": products}
	}
	return match
}

func (r *MongoMetricsRepository) Summary(ctx context.Context, match OrderMatch) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match.filter()}},
		{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"totalOrders":       bson.M{"$sum": 1},
			"totalRevenue":      bson.M{"$sum": "$total"},
			"averageOrderValue": bson.M{"$avg": "$total"},
		}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
	}

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return Metrics{}, fmt.Errorf("failed to aggregate order metrics: %w", err)
	}
	defer cursor.Close(ctx)

	var results []Metrics
	if err := cursor.All(ctx, &results); err != nil {
		return Metrics{}, fmt.Errorf("failed to decode order metrics: %w", err)
	}
	if len(results) == 0 {
		return Metrics{}, nil
	}
	return results[0], nil
}

func (r *MongoMetricsRepository) DailySales(ctx context.Context, w DailySalesWindow) ([]DailyBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	timezone, err := zoneName(w.Location)
	if err != nil {
		return nil, err
	}
	part := func(op string) bson.M {
		return bson.M{op: bson.M{"date": "$date", "timezone": timezone}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date": bson.M{"$gte": w.From, "$lt": w.To}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  part("$year"),
				"month": part("$month"),
				"day":   part("$dayOfMonth"),
			},
			"total": bson.M{"$sum": "$total"},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
			{Key: "_id.day", Value: 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":   0,
			"year":  "$_id.year",
			"month": "$_id.month",
			"day":   "$_id.day",
			"total": 1,
		}}},
	}

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily sales: %w", err)
	}
	defer cursor.Close(ctx)

	buckets := []DailyBucket{}
	if err := cursor.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("failed to decode daily sales: %w", err)
	}
	return buckets, nil
}
