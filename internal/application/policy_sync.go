package application

import (
	"context"
	"time"

	"preorder-shopify-layer/internal/domain"
	"preorder-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// defaultSyncTimeout bounds the outbound policy call; past it the attempt is
// treated as a failure and swallowed.
const defaultSyncTimeout = 8 * time.Second

// PolicySynchronizer mirrors a config's enabled state onto the platform's
// variant inventory policy. It is best-effort and never reports failure to
// its caller: the config store remains the source of truth and the remote
// flag is an eventually consistent copy of it. Repeated calls with the same
// arguments are safe.
type PolicySynchronizer struct {
	shops   ports.ShopRepository
	crypto  ports.EncryptionService
	client  ports.ShopifyClient
	timeout time.Duration
	logger  zerolog.Logger
}

// NewPolicySynchronizer creates a new inventory policy synchronizer.
func NewPolicySynchronizer(
	shops ports.ShopRepository,
	crypto ports.EncryptionService,
	client ports.ShopifyClient,
	logger zerolog.Logger,
) *PolicySynchronizer {
	return &PolicySynchronizer{
		shops:   shops,
		crypto:  crypto,
		client:  client,
		timeout: defaultSyncTimeout,
		logger:  logger,
	}
}

// Sync sets the variant's inventory policy to "continue" when enabled and
// "deny" when disabled. Missing credentials and remote failures are logged
// and swallowed.
func (s *PolicySynchronizer) Sync(ctx context.Context, shop string, variantID string, enabled bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec, err := s.shops.Get(ctx, shop)
	if err != nil {
		policySyncTotal.WithLabelValues("failure").Inc()
		s.logger.Warn().Err(err).Str("shop", shop).Msg("Policy sync skipped: failed to load shop credential")
		return
	}
	if rec == nil {
		policySyncTotal.WithLabelValues("skipped").Inc()
		s.logger.Debug().Str("shop", shop).Msg("Policy sync skipped: shop not installed")
		return
	}

	token, err := s.crypto.Decrypt(rec.AccessToken)
	if err != nil {
		policySyncTotal.WithLabelValues("failure").Inc()
		s.logger.Warn().Err(err).Str("shop", shop).Msg("Policy sync skipped: failed to decrypt access token")
		return
	}

	policy := domain.PolicyDeny
	if enabled {
		policy = domain.PolicyContinue
	}

	if err := s.client.SetVariantInventoryPolicy(ctx, shop, token, variantID, policy); err != nil {
		policySyncTotal.WithLabelValues("failure").Inc()
		s.logger.Warn().
			Err(err).
			Str("shop", shop).
			Str("variantId", variantID).
			Str("policy", string(policy)).
			Msg("Failed to sync inventory policy (non-blocking)")
		return
	}

	policySyncTotal.WithLabelValues("success").Inc()
	s.logger.Info().
		Str("shop", shop).
		Str("variantId", variantID).
		Str("policy", string(policy)).
		Msg("Synced inventory policy")
}
