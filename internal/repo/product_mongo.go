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

const productCollectionName = "products"

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection(productCollectionName)}
}

func (r *MongoProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Categories = models.CloneIDs(p.Categories)
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to find product: %w", err)
	}
	p.Categories = models.CloneIDs(p.Categories)
	return p, nil
}

func (r *MongoProductRepository) List(ctx context.Context, skip, limit int) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products, err := r.find(ctx, bson.M{}, pageOptions(skip, limit))
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *MongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *MongoProductRepository) CountExisting(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (r *MongoProductRepository) IDsByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"categories": categoryID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by category: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode product ids: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *MongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.ImageURL != nil {
		set["imageUrl"] = *patch.ImageURL
	}
	if patch.Categories != nil {
		set["categories"] = models.CloneIDs(*patch.Categories)
	}

	var p models.Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	p.Categories = models.CloneIDs(p.Categories)
	return p, nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *MongoProductRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete products: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) AddCategory(ctx context.Context, productIDs []primitive.ObjectID, categoryID primitive.ObjectID) error {
	return updateMany(ctx, r.collection, productIDs, bson.M{"$addToSet": bson.M{"categories": categoryID}})
}

func (r *MongoProductRepository) RemoveCategory(ctx context.Context, productIDs []primitive.ObjectID, categoryID primitive.ObjectID) error {
	return updateMany(ctx, r.collection, productIDs, bson.M{"$pull": bson.M{"categories": categoryID}})
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	for i := range products {
		products[i].Categories = models.CloneIDs(products[i].Categories)
	}
	return products, nil
}

// pageOptions sorts by _id so pages follow insertion order.
func pageOptions(skip, limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

// updateMany applies update to every document whose _id is in ids.
func updateMany(ctx context.Context, collection *mongo.Collection, ids []primitive.ObjectID, update bson.M) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, update); err != nil {
		return fmt.Errorf("failed to update %s: %w", collection.Name(), err)
	}
	return nil
}
