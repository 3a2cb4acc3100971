package ports

import (
	"context"

	"preorder-shopify-layer/internal/domain"

	shopify "github.com/bold-commerce/go-shopify/v4"
)

// VariantInfo is the subset of a platform variant the app cares about.
type VariantInfo struct {
	ID              int64
	ProductID       int64
	InventoryItemID int64
	InventoryPolicy domain.InventoryPolicy
}

// ShopifyClient defines the interface for outbound Shopify Admin API calls.
type ShopifyClient interface {
	// Authentication
	ExchangeToken(ctx context.Context, shop string, code string) (string, error)
	GetShop(ctx context.Context, shop string, accessToken string) (*shopify.Shop, error)

	// Variant API
	SetVariantInventoryPolicy(ctx context.Context, shop string, accessToken string, variantID string, policy domain.InventoryPolicy) error
	VariantsByInventoryItem(ctx context.Context, shop string, accessToken string, inventoryItemID int64) ([]VariantInfo, error)

	// Product metafields
	SetProductPreorderMetafield(ctx context.Context, shop string, accessToken string, productID int64) error

	// Storefront integration
	CreateScriptTag(ctx context.Context, shop string, accessToken string, src string) error
	CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) error
}
