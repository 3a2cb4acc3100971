package application

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// webhookTopics are subscribed on install.
var webhookTopics = []string{
	"inventory_levels/update",
	"orders/create",
	"app/uninstalled",
}

// ShopifyService handles the install flow: OAuth token exchange, encrypted
// credential storage, and the best-effort storefront integrations that
// follow a successful install.
type ShopifyService struct {
	shops  ports.ShopRepository
	client ports.ShopifyClient
	crypto ports.EncryptionService
	logger zerolog.Logger
	apiKey string
	scopes []string
	appURL string
}

// NewShopifyService creates a new install-flow service.
func NewShopifyService(
	shops ports.ShopRepository,
	client ports.ShopifyClient,
	crypto ports.EncryptionService,
	logger zerolog.Logger,
	apiKey string,
	scopes []string,
	appURL string,
) *ShopifyService {
	return &ShopifyService{
		shops:  shops,
		client: client,
		crypto: crypto,
		logger: logger,
		apiKey: apiKey,
		scopes: scopes,
		appURL: appURL,
	}
}

// AuthURL builds the authorization redirect for a shop.
func (s *ShopifyService) AuthURL(shop string, state string) string {
	redirectURI := s.appURL + "/auth/callback"
	return fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		shop,
		s.apiKey,
		url.QueryEscape(strings.Join(s.scopes, ",")),
		url.QueryEscape(redirectURI),
		url.QueryEscape(state),
	)
}

// CompleteInstall exchanges the authorization code, stores the encrypted
// token, and then installs the storefront script tag and webhook
// subscriptions. The integrations are best-effort: their failure is logged
// and never fails the install.
func (s *ShopifyService) CompleteInstall(ctx context.Context, shop string, code string) (*domain.Shop, error) {
	token, err := s.client.ExchangeToken(ctx, shop, code)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to exchange token")
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	if info, err := s.client.GetShop(ctx, shop, token); err != nil {
		s.logger.Warn().Err(err).Str("shop", shop).Msg("Could not fetch shop info after install")
	} else {
		s.logger.Info().Str("shop", shop).Str("name", info.Name).Msg("Installed on shop")
	}

	encrypted, err := s.crypto.Encrypt(token)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	rec := &domain.Shop{
		Domain:      shop,
		AccessToken: encrypted,
		Scopes:      s.scopes,
	}
	if err := s.shops.Save(ctx, rec); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to save shop credential")
		return nil, err
	}

	scriptSrc := s.appURL + "/script.js?shop=" + url.QueryEscape(shop)
	if err := s.client.CreateScriptTag(ctx, shop, token, scriptSrc); err != nil {
		s.logger.Warn().Err(err).Str("shop", shop).Msg("ScriptTag create failed (non-blocking)")
	}

	webhookAddress := s.appURL + "/webhooks/shopify"
	for _, topic := range webhookTopics {
		if err := s.client.CreateWebhook(ctx, shop, token, topic, webhookAddress); err != nil {
			s.logger.Warn().Err(err).Str("shop", shop).Str("topic", topic).Msg("Webhook registration failed (non-blocking)")
		}
	}

	return rec, nil
}

// AccessToken returns the decrypted token for a shop, or an error when the
// shop is not installed.
func (s *ShopifyService) AccessToken(ctx context.Context, shop string) (string, error) {
	rec, err := s.shops.Get(ctx, shop)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", fmt.Errorf("shop %s is not installed", shop)
	}
	token, err := s.crypto.Decrypt(rec.AccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt access token: %w", err)
	}
	return token, nil
}
