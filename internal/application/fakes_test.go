package application

import (
	"context"
	"fmt"
	"sync"

	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	shopify "github.com/bold-commerce/go-shopify/v4"
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
	if f.err != nil {
		return nil, f.err
	}
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
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.PreorderConfig
	for _, cfg := range f.configs {
		if cfg.Shop == shop && cfg.ProductID == productID {
			out = append(out, cfg)
		}
	}
	return out, nil
}

func (f *fakePreorderRepo) ListByShop(ctx context.Context, shop string) ([]*domain.PreorderConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.PreorderConfig
	for _, cfg := range f.configs {
		if cfg.Shop == shop {
			out = append(out, cfg)
		}
	}
	return out, nil
}

func (f *fakePreorderRepo) Delete(ctx context.Context, key domain.ConfigKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.configs, mapKey(key))
	return nil
}

type fakeShopRepo struct {
	mu    sync.Mutex
	shops map[string]*domain.Shop
	err   error
}

func newFakeShopRepo() *fakeShopRepo {
	return &fakeShopRepo{shops: make(map[string]*domain.Shop)}
}

func (f *fakeShopRepo) Save(ctx context.Context, shop *domain.Shop) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.shops[shop.Domain] = shop
	return nil
}

func (f *fakeShopRepo) Get(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
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
	err      error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]*domain.ShopSettings)}
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, settings *domain.ShopSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.settings[settings.Shop] = settings
	return nil
}

func (f *fakeSettingsRepo) Get(ctx context.Context, shopDomain string) (*domain.ShopSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.settings[shopDomain], nil
}

func (f *fakeSettingsRepo) Delete(ctx context.Context, shopDomain string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.settings, shopDomain)
	return nil
}

type fakeViewCache struct {
	mu    sync.Mutex
	views map[string]*domain.ResolvedView
}

func newFakeViewCache() *fakeViewCache {
	return &fakeViewCache{views: make(map[string]*domain.ResolvedView)}
}

func (f *fakeViewCache) Get(ctx context.Context, key domain.ConfigKey) (*domain.ResolvedView, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	view, ok := f.views[mapKey(key)]
	return view, ok
}

func (f *fakeViewCache) Set(ctx context.Context, key domain.ConfigKey, view *domain.ResolvedView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[mapKey(key)] = view
}

func (f *fakeViewCache) Invalidate(ctx context.Context, key domain.ConfigKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.views, mapKey(key))
}

type policyCall struct {
	Shop      string
	Token     string
	VariantID string
	Policy    domain.InventoryPolicy
}

type fakeShopifyClient struct {
	mu          sync.Mutex
	policyCalls []policyCall
	policyErr   error
	done        chan struct{} // signals each SetVariantInventoryPolicy call
}

func newFakeShopifyClient() *fakeShopifyClient {
	return &fakeShopifyClient{done: make(chan struct{}, 16)}
}

func (f *fakeShopifyClient) ExchangeToken(ctx context.Context, shop string, code string) (string, error) {
	return "token-" + code, nil
}

func (f *fakeShopifyClient) GetShop(ctx context.Context, shop string, accessToken string) (*shopify.Shop, error) {
	return &shopify.Shop{Name: shop}, nil
}

func (f *fakeShopifyClient) SetVariantInventoryPolicy(ctx context.Context, shop string, accessToken string, variantID string, policy domain.InventoryPolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.policyErr != nil {
		f.done <- struct{}{}
		return f.policyErr
	}
	f.policyCalls = append(f.policyCalls, policyCall{Shop: shop, Token: accessToken, VariantID: variantID, Policy: policy})
	f.done <- struct{}{}
	return nil
}

func (f *fakeShopifyClient) VariantsByInventoryItem(ctx context.Context, shop string, accessToken string, inventoryItemID int64) ([]ports.VariantInfo, error) {
	return nil, nil
}

func (f *fakeShopifyClient) SetProductPreorderMetafield(ctx context.Context, shop string, accessToken string, productID int64) error {
	return nil
}

func (f *fakeShopifyClient) CreateScriptTag(ctx context.Context, shop string, accessToken string, src string) error {
	return nil
}

func (f *fakeShopifyClient) CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) error {
	return nil
}

func (f *fakeShopifyClient) calls() []policyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]policyCall, len(f.policyCalls))
	copy(out, f.policyCalls)
	return out
}

type fakeCrypto struct {
	decryptErr error
}

func (f *fakeCrypto) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (f *fakeCrypto) Decrypt(ciphertext string) (string, error) {
	if f.decryptErr != nil {
		return "", f.decryptErr
	}
	if len(ciphertext) < 4 || ciphertext[:4] != "enc:" {
		return "", fmt.Errorf("malformed ciphertext %q", ciphertext)
	}
	return ciphertext[4:], nil
}
