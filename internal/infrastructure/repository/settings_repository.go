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

// MongoSettingsRepository implements SettingsRepository using MongoDB.
type MongoSettingsRepository struct {
	collection *mongo.Collection
}

// NewMongoSettingsRepository creates a new MongoDB settings repository.
func NewMongoSettingsRepository(db *mongo.Database) ports.SettingsRepository {
	return &MongoSettingsRepository{
		collection: db.Collection("settings"),
	}
}

// Upsert saves or updates a shop's storefront settings.
func (r *MongoSettingsRepository) Upsert(ctx context.Context, settings *domain.ShopSettings) error {
	update := bson.M{
		"$set": bson.M{
			"shop":       settings.Shop,
			"autoEnable": settings.AutoEnable,
			"autoRevert": settings.AutoRevert,
			"buttonText": settings.ButtonText,
			"badgeText":  settings.BadgeText,
			"noteText":   settings.NoteText,
			"shipEta":    settings.ShipETA,
			"updatedAt":  time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"shop": settings.Shop}, update, opts)
	if err != nil {
		return &domain.StorageUnavailableError{Err: fmt.Errorf("failed to save settings: %w", err)}
	}
	return nil
}

// Get retrieves a shop's settings, or nil when the shop never saved any.
func (r *MongoSettingsRepository) Get(ctx context.Context, shopDomain string) (*domain.ShopSettings, error) {
	var doc entity.SettingsDoc
	err := r.collection.FindOne(ctx, bson.M{"shop": shopDomain}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageUnavailableError{Err: fmt.Errorf("failed to get settings: %w", err)}
	}
	return doc.ToDomain(), nil
}

// Delete removes a shop's settings.
func (r *MongoSettingsRepository) Delete(ctx context.Context, shopDomain string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"shop": shopDomain})
	if err != nil {
		return &domain.StorageUnavailableError{Err: fmt.Errorf("failed to delete settings: %w", err)}
	}
	return nil
}
