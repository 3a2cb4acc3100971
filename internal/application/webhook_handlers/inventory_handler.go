package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"preorder-shopify-layer/internal/application"
	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// InventoryHandler reacts to inventory level changes. When a tracked item
// runs out and the shop has auto-enable on, affected variants are switched
// to sell-when-out-of-stock; when stock returns and auto-revert is on,
// variants without an enabled pre-order config are switched back.
type InventoryHandler struct {
	settings  *application.SettingsService
	shopify   *application.ShopifyService
	client    ports.ShopifyClient
	preorders ports.PreorderRepository
	logger    zerolog.Logger
}

// NewInventoryHandler creates a new inventory webhook handler.
func NewInventoryHandler(
	settings *application.SettingsService,
	shopify *application.ShopifyService,
	client ports.ShopifyClient,
	preorders ports.PreorderRepository,
	logger zerolog.Logger,
) *InventoryHandler {
	return &InventoryHandler{
		settings:  settings,
		shopify:   shopify,
		client:    client,
		preorders: preorders,
		logger:    logger,
	}
}

// CanHandle returns true if this handler can process the given topic.
func (h *InventoryHandler) CanHandle(topic string) bool {
	return topic == "inventory_levels/update"
}

// Handle processes an inventory level webhook event.
func (h *InventoryHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var payload struct {
		InventoryItemID *int64 `json:"inventory_item_id"`
		Available       int    `json:"available"`
	}
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse inventory webhook payload: %w", err)
	}
	if payload.InventoryItemID == nil {
		h.logger.Warn().Str("shop", event.Shop).Msg("Inventory webhook without inventory_item_id")
		return nil
	}

	settings, err := h.settings.Get(ctx, event.Shop)
	if err != nil {
		h.logger.Warn().Err(err).Str("shop", event.Shop).Msg("Could not load settings for inventory webhook")
		return nil
	}

	outOfStock := payload.Available <= 0
	if outOfStock && !settings.AutoEnable {
		return nil
	}
	if !outOfStock && !settings.AutoRevert {
		return nil
	}

	token, err := h.shopify.AccessToken(ctx, event.Shop)
	if err != nil {
		h.logger.Warn().Err(err).Str("shop", event.Shop).Msg("No usable credential for inventory webhook")
		return nil
	}

	variants, err := h.client.VariantsByInventoryItem(ctx, event.Shop, token, *payload.InventoryItemID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("shop", event.Shop).
			Int64("inventoryItemId", *payload.InventoryItemID).
			Msg("Failed to look up variants for inventory item")
		return nil
	}

	for _, v := range variants {
		if outOfStock {
			h.enable(ctx, event.Shop, token, v)
		} else {
			h.revert(ctx, event.Shop, token, v)
		}
	}
	return nil
}

func (h *InventoryHandler) enable(ctx context.Context, shop, token string, v ports.VariantInfo) {
	if v.InventoryPolicy == domain.PolicyContinue {
		return
	}
	variantID := strconv.FormatInt(v.ID, 10)
	if err := h.client.SetVariantInventoryPolicy(ctx, shop, token, variantID, domain.PolicyContinue); err != nil {
		h.logger.Warn().Err(err).Str("shop", shop).Str("variantId", variantID).Msg("Auto-enable policy update failed")
		return
	}
	// Best-effort pre-order marker on the product.
	if err := h.client.SetProductPreorderMetafield(ctx, shop, token, v.ProductID); err != nil {
		h.logger.Debug().Err(err).Str("shop", shop).Msg("Preorder metafield update failed")
	}
	h.logger.Info().
		Str("shop", shop).
		Str("variantId", variantID).
		Int64("productId", v.ProductID).
		Msg("Enabled continue-selling for out-of-stock variant")
}

func (h *InventoryHandler) revert(ctx context.Context, shop, token string, v ports.VariantInfo) {
	if v.InventoryPolicy != domain.PolicyContinue {
		return
	}
	variantID := strconv.FormatInt(v.ID, 10)
	productID := strconv.FormatInt(v.ProductID, 10)

	// A variant with an enabled pre-order config keeps its policy: the
	// merchant's explicit config wins over stock-level automation.
	if h.hasEnabledConfig(ctx, shop, productID, variantID) {
		return
	}

	if err := h.client.SetVariantInventoryPolicy(ctx, shop, token, variantID, domain.PolicyDeny); err != nil {
		h.logger.Warn().Err(err).Str("shop", shop).Str("variantId", variantID).Msg("Auto-revert policy update failed")
		return
	}
	h.logger.Info().
		Str("shop", shop).
		Str("variantId", variantID).
		Msg("Reverted variant to deny after restock")
}

func (h *InventoryHandler) hasEnabledConfig(ctx context.Context, shop, productID, variantID string) bool {
	keys := []domain.ConfigKey{
		{Shop: shop, ProductID: productID, VariantID: &variantID},
		{Shop: shop, ProductID: productID, VariantID: nil},
	}
	for _, key := range keys {
		cfg, err := h.preorders.FindExact(ctx, key)
		if err != nil {
			// Can't tell; leave the policy alone.
			h.logger.Warn().Err(err).Str("shop", shop).Msg("Config lookup failed during auto-revert")
			return true
		}
		if cfg != nil && cfg.Enabled {
			return true
		}
	}
	return false
}
