package ports

import (
	"context"

	"preorder-shopify-layer/internal/domain"
)

// ViewCache caches resolved storefront views on the proxy read path.
// Implementations are fail-open: a cache error behaves like a miss.
type ViewCache interface {
	Get(ctx context.Context, key domain.ConfigKey) (*domain.ResolvedView, bool)
	Set(ctx context.Context, key domain.ConfigKey, view *domain.ResolvedView)
	Invalidate(ctx context.Context, key domain.ConfigKey)
}
