package application

import (
	"context"
	"time"

	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// PreorderService is the admin write path and the storefront read path for
// pre-order configurations. Saves validate and normalize input, persist via
// the repository's atomic upsert, and dispatch the inventory policy sync
// asynchronously so a slow or failing platform call never delays the save.
type PreorderService struct {
	repo   ports.PreorderRepository
	cache  ports.ViewCache
	syncer *PolicySynchronizer
	logger zerolog.Logger
}

// NewPreorderService creates a new pre-order application service.
func NewPreorderService(
	repo ports.PreorderRepository,
	cache ports.ViewCache,
	syncer *PolicySynchronizer,
	logger zerolog.Logger,
) *PreorderService {
	return &PreorderService{
		repo:   repo,
		cache:  cache,
		syncer: syncer,
		logger: logger,
	}
}

// SaveInput is the validated admin payload for one config.
type SaveInput struct {
	ProductID         string     `json:"productId"`
	VariantID         *string    `json:"variantId"`
	Enabled           bool       `json:"enabled"`
	Message           string     `json:"message"`
	ShipDate          *time.Time `json:"shipDate"`
	Limit             *int       `json:"limit"`
	PaymentType       string     `json:"paymentType"`
	DepositPercentage *int       `json:"depositPercentage"`
}

// Save validates, normalizes, and persists a config, then triggers the
// policy synchronizer in the background when the config is variant-scoped.
// The returned config reflects exactly what was stored.
func (s *PreorderService) Save(ctx context.Context, shop string, in SaveInput) (*domain.PreorderConfig, error) {
	if shop == "" {
		return nil, domain.ErrMissingShop
	}
	if in.ProductID == "" {
		return nil, domain.ErrMissingProduct
	}

	variantID := in.VariantID
	if variantID != nil && *variantID == "" {
		variantID = nil
	}

	paymentType := domain.PaymentType(in.PaymentType)
	if in.PaymentType == "" {
		paymentType = domain.PaymentFullUpfront
	}
	if !paymentType.Valid() {
		return nil, &domain.ValidationError{Field: "paymentType", Reason: "must be full_upfront, deposit, or upon_fulfillment"}
	}

	deposit := domain.DefaultDepositPercentage
	if in.DepositPercentage != nil {
		deposit = *in.DepositPercentage
	}
	if paymentType == domain.PaymentDeposit && (deposit < 1 || deposit > 100) {
		return nil, &domain.ValidationError{Field: "depositPercentage", Reason: "must be between 1 and 100"}
	}

	if in.Limit != nil && *in.Limit < 0 {
		return nil, &domain.ValidationError{Field: "limit", Reason: "must be non-negative"}
	}

	message := in.Message
	if message == "" {
		message = domain.DefaultMessage
	}

	cfg := &domain.PreorderConfig{
		Shop:              shop,
		ProductID:         in.ProductID,
		VariantID:         variantID,
		Enabled:           in.Enabled,
		Message:           message,
		ShipDate:          in.ShipDate,
		Limit:             in.Limit,
		PaymentType:       paymentType,
		DepositPercentage: deposit,
	}

	saved, err := s.repo.Upsert(ctx, cfg)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Str("productId", in.ProductID).Msg("Failed to save preorder config")
		return nil, err
	}
	savesTotal.Inc()
	s.cache.Invalidate(ctx, saved.Key())

	// The platform's inventory policy is a denormalized mirror of the saved
	// state; syncing it must not delay or fail this save.
	if saved.VariantID != nil {
		go s.syncer.Sync(context.WithoutCancel(ctx), shop, *saved.VariantID, saved.Enabled)
	}

	s.logger.Info().
		Str("shop", shop).
		Str("productId", saved.ProductID).
		Bool("enabled", saved.Enabled).
		Msg("Saved preorder config")

	return saved, nil
}

// Resolve finds the config for an exact (shop, product, variant) key and
// normalizes it into the storefront contract. A variant-scoped lookup does
// not fall back to the product-level record: the two are independent keys.
// Absence is not an error; it resolves to the inert default view.
func (s *PreorderService) Resolve(ctx context.Context, shop string, productID string, variantID *string) (*domain.ResolvedView, error) {
	if shop == "" {
		return nil, domain.ErrMissingShop
	}
	if productID == "" {
		return nil, domain.ErrMissingProduct
	}
	if variantID != nil && *variantID == "" {
		variantID = nil
	}

	key := domain.ConfigKey{Shop: shop, ProductID: productID, VariantID: variantID}
	if view, ok := s.cache.Get(ctx, key); ok {
		resolvesTotal.WithLabelValues("cached").Inc()
		return view, nil
	}

	cfg, err := s.repo.FindExact(ctx, key)
	if err != nil {
		resolvesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	var view *domain.ResolvedView
	if cfg == nil {
		resolvesTotal.WithLabelValues("default").Inc()
		view = domain.DefaultView(productID, variantID)
	} else {
		resolvesTotal.WithLabelValues("found").Inc()
		view = domain.ViewFromConfig(cfg)
	}

	s.cache.Set(ctx, key, view)
	return view, nil
}

// Get retrieves one stored config by exact key, or nil when absent.
func (s *PreorderService) Get(ctx context.Context, key domain.ConfigKey) (*domain.PreorderConfig, error) {
	if key.VariantID != nil && *key.VariantID == "" {
		key.VariantID = nil
	}
	return s.repo.FindExact(ctx, key)
}

// List retrieves every config for a shop.
func (s *PreorderService) List(ctx context.Context, shop string) ([]*domain.PreorderConfig, error) {
	if shop == "" {
		return nil, domain.ErrMissingShop
	}
	return s.repo.ListByShop(ctx, shop)
}

// Delete removes one config by exact key.
func (s *PreorderService) Delete(ctx context.Context, key domain.ConfigKey) error {
	if key.VariantID != nil && *key.VariantID == "" {
		key.VariantID = nil
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, key)
	return nil
}
