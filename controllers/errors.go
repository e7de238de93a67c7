package controllers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"go-storefront/services"
)

// writeServiceError maps service errors onto the HTTP error taxonomy:
// validation 400, not-found 404, everything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrPaymentIncomplete):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrCouponExpired):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("request failed")
		http.Error(w, "Internal server error: "+err.Error(), http.StatusInternalServerError)
	}
}
