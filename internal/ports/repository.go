package ports

import (
	"context"

	"preorder-shopify-layer/internal/domain"
)

// PreorderRepository defines the interface for pre-order config persistence.
// Upsert is atomic on the (shop, productId, variantId) triple: concurrent
// upserts on the same key never create duplicate records.
type PreorderRepository interface {
	Upsert(ctx context.Context, cfg *domain.PreorderConfig) (*domain.PreorderConfig, error)
	FindExact(ctx context.Context, key domain.ConfigKey) (*domain.PreorderConfig, error)
	FindByProduct(ctx context.Context, shop string, productID string) ([]*domain.PreorderConfig, error)
	ListByShop(ctx context.Context, shop string) ([]*domain.PreorderConfig, error)
	Delete(ctx context.Context, key domain.ConfigKey) error
}

// ShopRepository defines the interface for shop credential persistence.
type ShopRepository interface {
	Save(ctx context.Context, shop *domain.Shop) error
	Get(ctx context.Context, shopDomain string) (*domain.Shop, error)
	Delete(ctx context.Context, shopDomain string) error
}

// SettingsRepository defines the interface for per-shop settings persistence.
type SettingsRepository interface {
	Upsert(ctx context.Context, settings *domain.ShopSettings) error
	Get(ctx context.Context, shopDomain string) (*domain.ShopSettings, error)
	Delete(ctx context.Context, shopDomain string) error
}

// SessionRepository stores short-lived OAuth state records.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, state string) (*domain.Session, error)
	Delete(ctx context.Context, state string) error
}
