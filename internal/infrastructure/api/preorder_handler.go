package api

import (
	"encoding/json"
	"net/http"

	"preorder-shopify-layer/internal/application"
	"preorder-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// PreorderHandler exposes the admin CRUD surface for pre-order configs.
type PreorderHandler struct {
	service *application.PreorderService
	logger  zerolog.Logger
}

// NewPreorderHandler creates a new admin pre-order handler.
func NewPreorderHandler(service *application.PreorderService, logger zerolog.Logger) *PreorderHandler {
	return &PreorderHandler{service: service, logger: logger}
}

// Save handles POST /preorders?shop={shop}. The body is a SaveInput; the
// response echoes the stored record.
func (h *PreorderHandler) Save(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")

	var in application.SaveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	saved, err := h.service.Save(r.Context(), shop, in)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, saved)
}

// Get handles GET /preorders?shop={shop}&productId={id}&variantId={id}.
// An absent record is not an error; data is null.
func (h *PreorderHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := keyFromQuery(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	cfg, err := h.service.Get(r.Context(), key)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{OK: true, Data: cfg})
}

// List handles GET /preorders/all?shop={shop}.
func (h *PreorderHandler) List(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")

	configs, err := h.service.List(r.Context(), shop)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if configs == nil {
		configs = []*domain.PreorderConfig{}
	}
	respondData(w, http.StatusOK, configs)
}

// Delete handles DELETE /preorders?shop={shop}&productId={id}&variantId={id}.
func (h *PreorderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, err := keyFromQuery(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), key); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}

func keyFromQuery(r *http.Request) (domain.ConfigKey, error) {
	shop := r.URL.Query().Get("shop")
	if shop == "" {
		return domain.ConfigKey{}, domain.ErrMissingShop
	}
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		return domain.ConfigKey{}, domain.ErrMissingProduct
	}

	var variantID *string
	if v := r.URL.Query().Get("variantId"); v != "" {
		variantID = &v
	}
	return domain.ConfigKey{Shop: shop, ProductID: productID, VariantID: variantID}, nil
}
