package webhook_handlers

import (
	"context"
	"sync"

	"preorder-shopify-layer/internal/application"
	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	shopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

func mapKey(key domain.ConfigKey) string {
	variant := "-"
	if key.VariantID != nil {
		variant = *key.VariantID
	}
	return key.Shop + "|" + key.ProductID + "|" + variant
}

type fakePreorderRepo struct {
	mu      sync.Mutex
	configs map[string]*domain.PreorderConfig
	err     error
}

func newFakePreorderRepo() *fakePreorderRepo {
	return &fakePreorderRepo{configs: make(map[string]*domain.PreorderConfig)}
}

func (f *fakePreorderRepo) Upsert(ctx context.Context, cfg *domain.PreorderConfig) (*domain.PreorderConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *cfg
	f.configs[mapKey(cfg.Key())] = &stored
	return &stored, nil
}

func (f *fakePreorderRepo) FindExact(ctx context.Context, key domain.ConfigKey) (*domain.PreorderConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.configs[mapKey(key)], nil
}

func (f *fakePreorderRepo) FindByProduct(ctx context.Context, shop string, productID string) ([]*domain.PreorderConfig, error) {
	return nil, nil
}

func (f *fakePreorderRepo) ListByShop(ctx context.Context, shop string) ([]*domain.PreorderConfig, error) {
	return nil, nil
}

func (f *fakePreorderRepo) Delete(ctx context.Context, key domain.ConfigKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.configs, mapKey(key))
	return nil
}

type fakeShopRepo struct {
	mu    sync.Mutex
	shops map[string]*domain.Shop
}

func newFakeShopRepo() *fakeShopRepo {
	return &fakeShopRepo{shops: make(map[string]*domain.Shop)}
}

func (f *fakeShopRepo) Save(ctx context.Context, shop *domain.Shop) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shops[shop.Domain] = shop
	return nil
}

func (f *fakeShopRepo) Get(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.shops[shopDomain], nil
}

func (f *fakeShopRepo) Delete(ctx context.Context, shopDomain string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.shops, shopDomain)
	return nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]*domain.ShopSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]*domain.ShopSettings)}
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, settings *domain.ShopSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings[settings.Shop] = settings
	return nil
}

func (f *fakeSettingsRepo) Get(ctx context.Context, shopDomain string) (*domain.ShopSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings[shopDomain], nil
}

func (f *fakeSettingsRepo) Delete(ctx context.Context, shopDomain string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.settings, shopDomain)
	return nil
}

type plainCrypto struct{}

func (plainCrypto) Encrypt(plaintext string) (string, error)  { return plaintext, nil }
func (plainCrypto) Decrypt(ciphertext string) (string, error) { return ciphertext, nil }

type policyCall struct {
	VariantID string
	Policy    domain.InventoryPolicy
}

type fakeShopifyClient struct {
	mu             sync.Mutex
	variants       []ports.VariantInfo
	policyCalls    []policyCall
	metafieldCalls []int64
}

func (f *fakeShopifyClient) ExchangeToken(ctx context.Context, shop string, code string) (string, error) {
	return "token", nil
}

func (f *fakeShopifyClient) GetShop(ctx context.Context, shop string, accessToken string) (*shopify.Shop, error) {
	return &shopify.Shop{Name: shop}, nil
}

func (f *fakeShopifyClient) SetVariantInventoryPolicy(ctx context.Context, shop string, accessToken string, variantID string, policy domain.InventoryPolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.policyCalls = append(f.policyCalls, policyCall{VariantID: variantID, Policy: policy})
	return nil
}

func (f *fakeShopifyClient) VariantsByInventoryItem(ctx context.Context, shop string, accessToken string, inventoryItemID int64) ([]ports.VariantInfo, error) {
	return f.variants, nil
}

func (f *fakeShopifyClient) SetProductPreorderMetafield(ctx context.Context, shop string, accessToken string, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metafieldCalls = append(f.metafieldCalls, productID)
	return nil
}

func (f *fakeShopifyClient) CreateScriptTag(ctx context.Context, shop string, accessToken string, src string) error {
	return nil
}

func (f *fakeShopifyClient) CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) error {
	return nil
}

type handlerDeps struct {
	preorders *fakePreorderRepo
	shops     *fakeShopRepo
	settings  *fakeSettingsRepo
	client    *fakeShopifyClient
	handler   *InventoryHandler
}

func newInventoryDeps() *handlerDeps {
	logger := zerolog.Nop()
	preorders := newFakePreorderRepo()
	shops := newFakeShopRepo()
	settings := newFakeSettingsRepo()
	client := &fakeShopifyClient{}

	settingsSvc := application.NewSettingsService(settings, logger)
	shopifySvc := application.NewShopifyService(shops, client, plainCrypto{}, logger, "key", nil, "https://app.example.com")

	return &handlerDeps{
		preorders: preorders,
		shops:     shops,
		settings:  settings,
		client:    client,
		handler:   NewInventoryHandler(settingsSvc, shopifySvc, client, preorders, logger),
	}
}
