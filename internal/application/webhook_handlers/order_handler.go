package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// OrderHandler inspects new orders for pre-ordered line items.
type OrderHandler struct {
	preorders ports.PreorderRepository
	logger    zerolog.Logger
}

// NewOrderHandler creates a new order webhook handler.
func NewOrderHandler(preorders ports.PreorderRepository, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{preorders: preorders, logger: logger}
}

// CanHandle returns true if this handler can process the given topic.
func (h *OrderHandler) CanHandle(topic string) bool {
	return topic == "orders/create"
}

// Handle processes an order creation webhook event.
func (h *OrderHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var order struct {
		ID        int64 `json:"id"`
		LineItems []struct {
			ProductID int64  `json:"product_id"`
			VariantID *int64 `json:"variant_id"`
			Quantity  int    `json:"quantity"`
			Title     string `json:"title"`
		} `json:"line_items"`
	}
	if err := json.Unmarshal(event.Payload, &order); err != nil {
		return fmt.Errorf("failed to parse order webhook payload: %w", err)
	}

	preorderCount := 0
	for _, item := range order.LineItems {
		productID := strconv.FormatInt(item.ProductID, 10)
		var variantID *string
		if item.VariantID != nil {
			v := strconv.FormatInt(*item.VariantID, 10)
			variantID = &v
		}
		if h.isPreorder(ctx, event.Shop, productID, variantID) {
			preorderCount++
			h.logger.Info().
				Str("shop", event.Shop).
				Int64("orderId", order.ID).
				Str("productId", productID).
				Str("title", item.Title).
				Int("quantity", item.Quantity).
				Msg("Order contains pre-ordered item")
		}
	}

	if preorderCount > 0 {
		h.logger.Info().
			Str("shop", event.Shop).
			Int64("orderId", order.ID).
			Int("preorderItems", preorderCount).
			Msg("Processed order with pre-order items")
	}
	return nil
}

// isPreorder checks the variant-scoped config first, then the product-level
// one. Detection is informational, unlike storefront resolution which never
// crosses key scopes.
func (h *OrderHandler) isPreorder(ctx context.Context, shop, productID string, variantID *string) bool {
	keys := []domain.ConfigKey{{Shop: shop, ProductID: productID, VariantID: variantID}}
	if variantID != nil {
		keys = append(keys, domain.ConfigKey{Shop: shop, ProductID: productID, VariantID: nil})
	}
	for _, key := range keys {
		cfg, err := h.preorders.FindExact(ctx, key)
		if err != nil {
			h.logger.Warn().Err(err).Str("shop", shop).Msg("Config lookup failed during order inspection")
			return false
		}
		if cfg != nil && cfg.Enabled {
			return true
		}
	}
	return false
}
