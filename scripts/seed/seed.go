package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rogerio-castellano/catalog-admin/internal/catalog"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
	"github.com/rogerio-castellano/catalog-admin/internal/repo"
	"github.com/rogerio-castellano/catalog-admin/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type seedResult struct {
	Categories int
	Products   int
	Orders     int
}

var sampleCategories = []catalog.CategoryInput{
	{Name: "Electronics", Description: "Phones, computers and gadgets"},
	{Name: "Books", Description: "Fiction and non-fiction"},
	{Name: "Clothing", Description: "Apparel and fashion"},
	{Name: "Groceries", Description: "Food and drinks"},
	{Name: "Furniture", Description: "Home and office furniture"},
}

type sampleProduct struct {
	input    catalog.ProductInput
	imageURL string
	category int
}

var sampleProducts = []sampleProduct{
	{catalog.ProductInput{Name: "Smartphone", Description: "Android smartphone", Price: 699}, "https://example.com/smartphone.jpg", 0},
	{catalog.ProductInput{Name: "Laptop", Description: "High performance laptop", Price: 1200}, "https://example.com/laptop.jpg", 0},
	{catalog.ProductInput{Name: "Mystery Novel", Description: "A gripping page-turner", Price: 15}, "https://example.com/book.jpg", 1},
	{catalog.ProductInput{Name: "T-Shirt", Description: "Basic cotton t-shirt", Price: 25}, "https://example.com/t-shirt.jpg", 2},
	{catalog.ProductInput{Name: "Frozen Pizza", Description: "Ready to bake", Price: 20}, "https://example.com/pizza.jpg", 3},
	{catalog.ProductInput{Name: "Office Chair", Description: "Ergonomic chair", Price: 250}, "https://example.com/office-chair.jpg", 4},
}

type sampleOrder struct {
	daysAgo  int
	products []int
	total    float64
}

// Orders are dated relative to the seeding time so the dashboard has data for the current month.
var sampleOrders = []sampleOrder{
	{daysAgo: 120, products: []int{0, 1}, total: 1899},
	{daysAgo: 90, products: []int{2}, total: 15},
	{daysAgo: 60, products: []int{3, 4}, total: 45},
	{daysAgo: 30, products: []int{5}, total: 250},
	{daysAgo: 0, products: []int{1, 3}, total: 1225},
	{daysAgo: 0, products: []int{2}, total: 15},
}

// seed wipes the store and inserts the sample data. Products are created through the
// catalog services so both sides of the category links are written.
func seed(ctx context.Context, store repo.Store, now time.Time, log *zap.Logger) (seedResult, error) {
	if err := store.Orders.DeleteAll(ctx); err != nil {
		return seedResult{}, fmt.Errorf("failed to clear orders: %w", err)
	}
	if err := store.Products.DeleteAll(ctx); err != nil {
		return seedResult{}, fmt.Errorf("failed to clear products: %w", err)
	}
	if err := store.Categories.DeleteAll(ctx); err != nil {
		return seedResult{}, fmt.Errorf("failed to clear categories: %w", err)
	}

	categoryService := catalog.NewCategoryService(store.Categories, store.Products, log)
	productService := catalog.NewProductService(store.Categories, store.Products, storage.NewStubUploader(""), log)
	orderService := catalog.NewOrderService(store.Orders, store.Products)

	categoryIDs := make([]primitive.ObjectID, 0, len(sampleCategories))
	for _, in := range sampleCategories {
		c, err := categoryService.Create(ctx, in)
		if err != nil {
			return seedResult{}, fmt.Errorf("failed to create category %q: %w", in.Name, err)
		}
		categoryIDs = append(categoryIDs, c.ID)
	}

	productIDs := make([]primitive.ObjectID, 0, len(sampleProducts))
	for _, sp := range sampleProducts {
		in := sp.input
		in.Categories = []primitive.ObjectID{categoryIDs[sp.category]}
		p, err := productService.Create(ctx, in, nil)
		if err != nil {
			return seedResult{}, fmt.Errorf("failed to create product %q: %w", in.Name, err)
		}
		imageURL := sp.imageURL
		if _, err := store.Products.Update(ctx, p.ID, models.ProductPatch{ImageURL: &imageURL}); err != nil {
			return seedResult{}, fmt.Errorf("failed to set image of %q: %w", in.Name, err)
		}
		productIDs = append(productIDs, p.ID)
	}

	for _, so := range sampleOrders {
		ids := make([]primitive.ObjectID, 0, len(so.products))
		for _, i := range so.products {
			ids = append(ids, productIDs[i])
		}
		_, err := orderService.Create(ctx, catalog.OrderInput{
			Date:     now.AddDate(0, 0, -so.daysAgo),
			Products: ids,
			Total:    so.total,
		})
		if err != nil {
			return seedResult{}, fmt.Errorf("failed to create order: %w", err)
		}
	}

	return seedResult{
		Categories: len(categoryIDs),
		Products:   len(productIDs),
		Orders:     len(sampleOrders),
	}, nil
}
