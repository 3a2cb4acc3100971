package entity

import (
	"time"

	"preorder-shopify-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PreorderConfigDoc represents a pre-order configuration in MongoDB.
// VariantID is stored as an explicit null for product-level records so the
// compound unique index treats absence as a distinct key value.
type PreorderConfigDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Shop              string             `bson:"shop"`
	ProductID         string             `bson:"productId"`
	VariantID         *string            `bson:"variantId"`
	Enabled           bool               `bson:"enabled"`
	Message           string             `bson:"message"`
	ShipDate          *time.Time         `bson:"shipDate"`
	Limit             *int               `bson:"limit"`
	PaymentType       string             `bson:"paymentType"`
	DepositPercentage int                `bson:"depositPercentage"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *PreorderConfigDoc) ToDomain() *domain.PreorderConfig {
	return &domain.PreorderConfig{
		ID:                d.ID.Hex(),
		Shop:              d.Shop,
		ProductID:         d.ProductID,
		VariantID:         d.VariantID,
		Enabled:           d.Enabled,
		Message:           d.Message,
		ShipDate:          d.ShipDate,
		Limit:             d.Limit,
		PaymentType:       domain.PaymentType(d.PaymentType),
		DepositPercentage: d.DepositPercentage,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
