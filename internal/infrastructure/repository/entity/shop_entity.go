package entity

import (
	"time"

	"preorder-shopify-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShopDoc represents a shop credential in MongoDB.
type ShopDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Domain      string             `bson:"shop"`
	AccessToken string             `bson:"accessToken"`
	Scopes      []string           `bson:"scopes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *ShopDoc) ToDomain() *domain.Shop {
	return &domain.Shop{
		ID:          d.ID.Hex(),
		Domain:      d.Domain,
		AccessToken: d.AccessToken,
		Scopes:      d.Scopes,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// SettingsDoc represents per-shop storefront settings in MongoDB.
type SettingsDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Shop       string             `bson:"shop"`
	AutoEnable bool               `bson:"autoEnable"`
	AutoRevert bool               `bson:"autoRevert"`
	ButtonText string             `bson:"buttonText"`
	BadgeText  string             `bson:"badgeText"`
	NoteText   string             `bson:"noteText"`
	ShipETA    string             `bson:"shipEta"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *SettingsDoc) ToDomain() *domain.ShopSettings {
	return &domain.ShopSettings{
		Shop:       d.Shop,
		AutoEnable: d.AutoEnable,
		AutoRevert: d.AutoRevert,
		ButtonText: d.ButtonText,
		BadgeText:  d.BadgeText,
		NoteText:   d.NoteText,
		ShipETA:    d.ShipETA,
		UpdatedAt:  d.UpdatedAt,
	}
}

// SessionDoc represents an OAuth state record in MongoDB.
type SessionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Shop      string             `bson:"shop"`
	State     string             `bson:"state"`
	ExpiresAt time.Time          `bson:"expiresAt"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *SessionDoc) ToDomain() *domain.Session {
	return &domain.Session{
		ID:        d.ID.Hex(),
		Shop:      d.Shop,
		State:     d.State,
		ExpiresAt: d.ExpiresAt,
		CreatedAt: d.CreatedAt,
	}
}
