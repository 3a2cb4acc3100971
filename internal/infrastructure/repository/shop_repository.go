package repository

import (
	"context"
	"fmt"
	"time"

	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/infrastructure/repository/entity"
	"preorder-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoShopRepository implements ShopRepository using MongoDB.
type MongoShopRepository struct {
	collection *mongo.Collection
}

// NewMongoShopRepository creates a new MongoDB shop repository.
func NewMongoShopRepository(db *mongo.Database) ports.ShopRepository {
	return &MongoShopRepository{
		collection: db.Collection("shops"),
	}
}

// Save saves or updates a shop credential.
func (r *MongoShopRepository) Save(ctx context.Context, shop *domain.Shop) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"shop":        shop.Domain,
			"accessToken": shop.AccessToken,
			"scopes":      shop.Scopes,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"shop": shop.Domain}, update, opts)
	if err != nil {
		return &domain.StorageUnavailableError{Err: fmt.Errorf("failed to save shop: %w", err)}
	}
	return nil
}

// Get retrieves a shop credential by domain, or nil when absent.
func (r *MongoShopRepository) Get(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	var doc entity.ShopDoc
	err := r.collection.FindOne(ctx, bson.M{"shop": shopDomain}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageUnavailableError{Err: fmt.Errorf("failed to get shop: %w", err)}
	}
	return doc.ToDomain(), nil
}

// Delete removes a shop credential.
func (r *MongoShopRepository) Delete(ctx context.Context, shopDomain string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"shop": shopDomain})
	if err != nil {
		return &domain.StorageUnavailableError{Err: fmt.Errorf("failed to delete shop: %w", err)}
	}
	return nil
}
