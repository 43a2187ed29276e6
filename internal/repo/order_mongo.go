package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const orderCollectionName = "orders"

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection(orderCollectionName)}
}

func (r *MongoOrderRepository) Create(ctx context.Context, o models.Order) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.Products = models.CloneIDs(o.Products)
	if o.Date.IsZero() {
		o.Date = now
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return models.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}
	return o, nil
}

func (r *MongoOrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var o models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to find order: %w", err)
	}
	o.Products = models.CloneIDs(o.Products)
	return o, nil
}

func (r *MongoOrderRepository) List(ctx context.Context, skip, limit int) ([]models.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, pageOptions(skip, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}
	for i := range orders {
		orders[i].Products = models.CloneIDs(orders[i].Products)
	}
	return orders, total, nil
}

func (r *MongoOrderRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.OrderPatch) (models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Products != nil {
		set["products"] = models.CloneIDs(*patch.Products)
	}
	if patch.Total != nil {
		set["total"] = *patch.Total
	}

	var o models.Order
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to update order: %w", err)
	}
	o.Products = models.CloneIDs(o.Products)
	return o, nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *MongoOrderRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete orders: %w", err)
	}
	return nil
}
