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

// MongoPreorderRepository implements PreorderRepository using MongoDB.
// Uniqueness on (shop, productId, variantId) is enforced by a compound
// unique index; variantId is stored as null for product-level records, so
// the null itself is a distinct key value.
type MongoPreorderRepository struct {
	collection *mongo.Collection
}

// NewMongoPreorderRepository creates a new MongoDB pre-order repository.
func NewMongoPreorderRepository(db *mongo.Database) *MongoPreorderRepository {
	return &MongoPreorderRepository{
		collection: db.Collection("preorder_configs"),
	}
}

// EnsureIndexes creates the compound unique index. Called once at startup.
func (r *MongoPreorderRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "shop", Value: 1},
			{Key: "productId", Value: 1},
			{Key: "variantId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create preorder config index: %w", err)
	}
	return nil
}

func keyFilter(key domain.ConfigKey) bson.M {
	return bson.M{
		"shop":      key.Shop,
		"productId": key.ProductID,
		"variantId": key.VariantID,
	}
}

// Upsert atomically creates or replaces the config for its exact key and
// returns the stored record.
func (r *MongoPreorderRepository) Upsert(ctx context.Context, cfg *domain.PreorderConfig) (*domain.PreorderConfig, error) {
	if cfg.Shop == "" {
		return nil, domain.ErrMissingShop
	}
	if cfg.ProductID == "" {
		return nil, domain.ErrMissingProduct
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"shop":              cfg.Shop,
			"productId":         cfg.ProductID,
			"variantId":         cfg.VariantID,
			"enabled":           cfg.Enabled,
			"message":           cfg.Message,
			"shipDate":          cfg.ShipDate,
			"limit":             cfg.Limit,
			"paymentType":       string(cfg.PaymentType),
			"depositPercentage": cfg.DepositPercentage,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc entity.PreorderConfigDoc
	err := r.collection.FindOneAndUpdate(ctx, keyFilter(cfg.Key()), update, opts).Decode(&doc)
	if err != nil {
		return nil, &domain.StorageUnavailableError{Err: fmt.Errorf("failed to upsert preorder config: %w", err)}
	}

	return doc.ToDomain(), nil
}

// FindExact retrieves the config for an exact key, or nil when absent.
func (r *MongoPreorderRepository) FindExact(ctx context.Context, key domain.ConfigKey) (*domain.PreorderConfig, error) {
	if key.Shop == "" {
		return nil, domain.ErrMissingShop
	}
	if key.ProductID == "" {
		return nil, domain.ErrMissingProduct
	}

	var doc entity.PreorderConfigDoc
	err := r.collection.FindOne(ctx, keyFilter(key)).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageUnavailableError{Err: fmt.Errorf("failed to get preorder config: %w", err)}
	}

	return doc.ToDomain(), nil
}

// FindByProduct retrieves every config for one product, variant-scoped and
// product-level alike.
func (r *MongoPreorderRepository) FindByProduct(ctx context.Context, shop string, productID string) ([]*domain.PreorderConfig, error) {
	return r.find(ctx, bson.M{"shop": shop, "productId": productID})
}

// ListByShop retrieves every config for a shop.
func (r *MongoPreorderRepository) ListByShop(ctx context.Context, shop string) ([]*domain.PreorderConfig, error) {
	return r.find(ctx, bson.M{"shop": shop})
}

func (r *MongoPreorderRepository) find(ctx context.Context, filter bson.M) ([]*domain.PreorderConfig, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, &domain.StorageUnavailableError{Err: fmt.Errorf("failed to list preorder configs: %w", err)}
	}
	defer cursor.Close(ctx)

	var configs []*domain.PreorderConfig
	for cursor.Next(ctx) {
		var doc entity.PreorderConfigDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, &domain.StorageUnavailableError{Err: fmt.Errorf("failed to decode preorder config: %w", err)}
		}
		configs = append(configs, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, &domain.StorageUnavailableError{Err: fmt.Errorf("cursor error: %w", err)}
	}

	return configs, nil
}

// Delete removes the config for an exact key. Deleting an absent key is not
// an error.
func (r *MongoPreorderRepository) Delete(ctx context.Context, key domain.ConfigKey) error {
	if key.Shop == "" {
		return domain.ErrMissingShop
	}
	if key.ProductID == "" {
		return domain.ErrMissingProduct
	}

	_, err := r.collection.DeleteOne(ctx, keyFilter(key))
	if err != nil {
		return &domain.StorageUnavailableError{Err: fmt.Errorf("failed to delete preorder config: %w", err)}
	}
	return nil
}

var _ ports.PreorderRepository = (*MongoPreorderRepository)(nil)
