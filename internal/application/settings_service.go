package application

import (
	"context"

	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// SettingsService manages per-shop storefront settings.
type SettingsService struct {
	repo   ports.SettingsRepository
	logger zerolog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(repo ports.SettingsRepository, logger zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// SettingsInput is the admin payload for shop settings.
type SettingsInput struct {
	AutoEnable bool   `json:"autoEnable"`
	AutoRevert bool   `json:"autoRevert"`
	ButtonText string `json:"buttonText"`
	BadgeText  string `json:"badgeText"`
	NoteText   string `json:"noteText"`
	ShipETA    string `json:"shipEta"`
}

// Get retrieves a shop's settings, substituting defaults when none were
// ever saved.
func (s *SettingsService) Get(ctx context.Context, shop string) (*domain.ShopSettings, error) {
	if shop == "" {
		return nil, domain.ErrMissingShop
	}
	settings, err := s.repo.Get(ctx, shop)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return domain.DefaultSettings(shop), nil
	}
	return settings, nil
}

// Save normalizes and persists a shop's settings.
func (s *SettingsService) Save(ctx context.Context, shop string, in SettingsInput) (*domain.ShopSettings, error) {
	if shop == "" {
		return nil, domain.ErrMissingShop
	}

	defaults := domain.DefaultSettings(shop)
	settings := &domain.ShopSettings{
		Shop:       shop,
		AutoEnable: in.AutoEnable,
		AutoRevert: in.AutoRevert,
		ButtonText: clamp(in.ButtonText, defaults.ButtonText, 40),
		BadgeText:  clamp(in.BadgeText, defaults.BadgeText, 40),
		NoteText:   clamp(in.NoteText, defaults.NoteText, 140),
		ShipETA:    clamp(in.ShipETA, "", 40),
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to save settings")
		return nil, err
	}

	s.logger.Info().Str("shop", shop).Msg("Saved shop settings")
	return settings, nil
}

// Delete removes a shop's settings.
func (s *SettingsService) Delete(ctx context.Context, shop string) error {
	return s.repo.Delete(ctx, shop)
}

func clamp(v, fallback string, max int) string {
	if v == "" {
		return fallback
	}
	if len(v) > max {
		return v[:max]
	}
	return v
}
