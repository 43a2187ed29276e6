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

const categoryCollectionName = "categories"

type MongoCategoryRepository struct {
	collection *mongo.Collection
}

func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{collection: db.Collection(categoryCollectionName)}
}

func (r *MongoCategoryRepository) Create(ctx context.Context, c models.Category) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.Products = models.CloneIDs(c.Products)
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, c); err != nil {
		return models.Category{}, fmt.Errorf("failed to insert category: %w", err)
	}
	return c, nil
}

func (r *MongoCategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c models.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to find category: %w", err)
	}
	c.Products = models.CloneIDs(c.Products)
	return c, nil
}

func (r *MongoCategoryRepository) List(ctx context.Context, skip, limit int) ([]models.Category, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	categories, err := r.find(ctx, bson.M{}, pageOptions(skip, limit))
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *MongoCategoryRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *MongoCategoryRepository) CountExisting(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}

func (r *MongoCategoryRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.CategoryPatch) (models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Products != nil {
		set["products"] = models.CloneIDs(*patch.Products)
	}

	var c models.Category
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to update category: %w", err)
	}
	c.Products = models.CloneIDs(c.Products)
	return c, nil
}

func (r *MongoCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *MongoCategoryRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete categories: %w", err)
	}
	return nil
}

func (r *MongoCategoryRepository) AddProduct(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	return updateMany(ctx, r.collection, categoryIDs, bson.M{"$addToSet": bson.M{"products": productID}})
}

func (r *MongoCategoryRepository) RemoveProduct(ctx context.Context, categoryIDs []primitive.ObjectID, productID primitive.ObjectID) error {
	return updateMany(ctx, r.collection, categoryIDs, bson.M{"$pull": bson.M{"products": productID}})
}

func (r *MongoCategoryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Category, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	for i := range categories {
		categories[i].Products = models.CloneIDs(categories[i].Products)
	}
	return categories, nil
}
