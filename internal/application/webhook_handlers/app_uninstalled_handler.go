package webhook_handlers

import (
	"context"

	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler removes a shop's credential and settings when the
// app is uninstalled. Pre-order configs are kept so a reinstall restores
// the merchant's setup.
type AppUninstalledHandler struct {
	shops    ports.ShopRepository
	settings ports.SettingsRepository
	logger   zerolog.Logger
}

// NewAppUninstalledHandler creates a new app/uninstalled webhook handler.
func NewAppUninstalledHandler(
	shops ports.ShopRepository,
	settings ports.SettingsRepository,
	logger zerolog.Logger,
) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		shops:    shops,
		settings: settings,
		logger:   logger,
	}
}

// CanHandle returns true if this handler can process the given topic.
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == "app/uninstalled"
}

// Handle processes an app uninstall webhook event.
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	if event.Shop == "" {
		h.logger.Warn().Msg("Uninstall webhook without shop domain")
		return nil
	}

	if err := h.shops.Delete(ctx, event.Shop); err != nil {
		return err
	}
	if err := h.settings.Delete(ctx, event.Shop); err != nil {
		h.logger.Warn().Err(err).Str("shop", event.Shop).Msg("Failed to delete settings on uninstall")
	}

	h.logger.Info().Str("shop", event.Shop).Msg("Cleaned up uninstalled shop")
	return nil
}
