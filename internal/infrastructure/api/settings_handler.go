package api

import (
	"encoding/json"
	"net/http"

	"preorder-shopify-layer/internal/application"

	"github.com/rs/zerolog"
)

// SettingsHandler exposes the admin surface for shop settings.
type SettingsHandler struct {
	service *application.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(service *application.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, logger: logger}
}

// Get handles GET /settings?shop={shop}. Defaults are returned when the
// shop never saved settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")

	settings, err := h.service.Get(r.Context(), shop)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, settings)
}

// Save handles PUT /settings?shop={shop}.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")

	var in application.SettingsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	settings, err := h.service.Save(r.Context(), shop, in)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondData(w, http.StatusOK, settings)
}
