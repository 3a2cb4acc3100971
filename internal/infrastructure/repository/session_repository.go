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

// MongoSessionRepository implements SessionRepository using MongoDB. Sessions
// expire via a TTL index on expiresAt.
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoDB OAuth session repository.
func NewMongoSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{
		collection: db.Collection("oauth_sessions"),
	}
}

var _ ports.SessionRepository = (*MongoSessionRepository)(nil)

// EnsureIndexes creates the TTL index on expiresAt. Called once at startup.
func (r *MongoSessionRepository) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create session TTL index: %w", err)
	}
	return nil
}

// Create stores a new OAuth state record.
func (r *MongoSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	doc := entity.SessionDoc{
		Shop:      session.Shop,
		State:     session.State,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: time.Now(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return &domain.StorageUnavailableError{Err: fmt.Errorf("failed to create session: %w", err)}
	}
	return nil
}

// Get retrieves a session by state, or nil when absent or expired.
func (r *MongoSessionRepository) Get(ctx context.Context, state string) (*domain.Session, error) {
	var doc entity.SessionDoc
	err := r.collection.FindOne(ctx, bson.M{"state": state}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageUnavailableError{Err: fmt.Errorf("failed to get session: %w", err)}
	}
	if time.Now().After(doc.ExpiresAt) {
		return nil, nil
	}
	return doc.ToDomain(), nil
}

// Delete removes a session by state.
func (r *MongoSessionRepository) Delete(ctx context.Context, state string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"state": state})
	if err != nil {
		return &domain.StorageUnavailableError{Err: fmt.Errorf("failed to delete session: %w", err)}
	}
	return nil
}
