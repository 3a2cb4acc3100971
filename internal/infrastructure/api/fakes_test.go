package api

import (
	"context"
	"sync"

	"preorder-shopify-layer/internal/application"
	"preorder-shopify-layer/internal/domain"

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
	return nil, f.err
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

type emptyShopRepo struct{}

func (emptyShopRepo) Save(ctx context.Context, shop *domain.Shop) error { return nil }
func (emptyShopRepo) Get(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	return nil, nil
}
func (emptyShopRepo) Delete(ctx context.Context, shopDomain string) error { return nil }

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key domain.ConfigKey) (*domain.ResolvedView, bool) {
	return nil, false
}
func (noopCache) Set(ctx context.Context, key domain.ConfigKey, view *domain.ResolvedView) {}
func (noopCache) Invalidate(ctx context.Context, key domain.ConfigKey)                     {}

type fakeSettingsRepo struct {
	settings map[string]*domain.ShopSettings
	err      error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]*domain.ShopSettings)}
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, settings *domain.ShopSettings) error {
	if f.err != nil {
		return f.err
	}
	f.settings[settings.Shop] = settings
	return nil
}

func (f *fakeSettingsRepo) Get(ctx context.Context, shopDomain string) (*domain.ShopSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.settings[shopDomain], nil
}

func (f *fakeSettingsRepo) Delete(ctx context.Context, shopDomain string) error { return nil }

// newTestPreorderService builds a service whose policy sync is inert: the
// shop repo is empty, so the synchronizer returns before touching the API.
func newTestPreorderService(repo *fakePreorderRepo) *application.PreorderService {
	logger := zerolog.Nop()
	syncer := application.NewPolicySynchronizer(emptyShopRepo{}, nil, nil, logger)
	return application.NewPreorderService(repo, noopCache{}, syncer, logger)
}
