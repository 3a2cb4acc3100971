package api

import (
	"net/http"
	"time"

	"preorder-shopify-layer/internal/application"
	"preorder-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// ProxyHandler serves the storefront lookup behind Shopify's app proxy.
// Storefront themes cannot distinguish HTTP error codes usefully, so every
// response is a 200; failures degrade to {"ok":false}.
type ProxyHandler struct {
	service *application.PreorderService
	logger  zerolog.Logger
}

// NewProxyHandler creates a new storefront proxy handler.
func NewProxyHandler(service *application.PreorderService, logger zerolog.Logger) *ProxyHandler {
	return &ProxyHandler{service: service, logger: logger}
}

type proxyResponse struct {
	OK                bool               `json:"ok"`
	ProductID         string             `json:"productId,omitempty"`
	VariantID         *string            `json:"variantId,omitempty"`
	Enabled           bool               `json:"enabled"`
	Message           string             `json:"message,omitempty"`
	ShipDate          *time.Time         `json:"shipDate,omitempty"`
	Limit             *int               `json:"limit,omitempty"`
	PaymentType       domain.PaymentType `json:"paymentType,omitempty"`
	DepositPercentage int                `json:"depositPercentage,omitempty"`
}

// Lookup handles GET /proxy?shop={shop}&productId={id}&variantId={id}.
func (h *ProxyHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	productID := r.URL.Query().Get("productId")

	var variantID *string
	if v := r.URL.Query().Get("variantId"); v != "" {
		variantID = &v
	}

	view, err := h.service.Resolve(r.Context(), shop, productID, variantID)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("shop", shop).
			Str("productId", productID).
			Msg("Storefront lookup failed, returning inert response")
		writeJSON(w, http.StatusOK, proxyResponse{OK: false})
		return
	}

	writeJSON(w, http.StatusOK, proxyResponse{
		OK:                true,
		ProductID:         view.ProductID,
		VariantID:         view.VariantID,
		Enabled:           view.Enabled,
		Message:           view.Message,
		ShipDate:          view.ShipDate,
		Limit:             view.Limit,
		PaymentType:       view.PaymentType,
		DepositPercentage: view.DepositPercentage,
	})
}
