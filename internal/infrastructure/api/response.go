package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"preorder-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

type successResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data,omitempty"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, successResponse{OK: true, Data: data})
}

// respondError maps domain errors onto HTTP statuses for the admin surface.
// Validation problems are the caller's fault; everything else is ours.
func respondError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var validationErr *domain.ValidationError
	var storageErr *domain.StorageUnavailableError

	switch {
	case errors.Is(err, domain.ErrMissingShop), errors.Is(err, domain.ErrMissingProduct):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &storageErr):
		logger.Error().Err(err).Msg("Storage unavailable")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "storage unavailable"})
	default:
		logger.Error().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
