package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	appadmin "github.com/amelia-salon/storefront/internal/application/admin"
	appcheckout "github.com/amelia-salon/storefront/internal/application/checkout"
	domcart "github.com/amelia-salon/storefront/internal/domain/cart"
	domcatalog "github.com/amelia-salon/storefront/internal/domain/catalog"
	domcheckout "github.com/amelia-salon/storefront/internal/domain/checkout"
	dompayment "github.com/amelia-salon/storefront/internal/domain/payment"
)

func decodeJSON(ctx context.Context, r *http.Request, dst any) error {
	_ = ctx
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// isDomainErr reports whether the error is a known domain sentinel, as
// opposed to an infrastructure failure that should not be mapped.
func isDomainErr(err error) bool {
	var stale *appcheckout.StaleCartError
	return errors.As(err, &stale) ||
		errors.Is(err, domcheckout.ErrSessionNotFound) ||
		errors.Is(err, domcheckout.ErrIllegalTransition) ||
		errors.Is(err, appcheckout.ErrEmptyCart) ||
		errors.Is(err, domcatalog.ErrNotFound)
}

// writeDomainError maps domain sentinels to HTTP statuses. Storage and
// other unexpected errors come back as a generic 500; detail stays in
// the server log.
func writeDomainError(w http.ResponseWriter, err error) {
	var stale *appcheckout.StaleCartError
	switch {
	case errors.As(err, &stale):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     "cart contents exceed available stock",
			"shortages": stale.Shortages,
		})
	case errors.Is(err, domcatalog.ErrNotFound),
		errors.Is(err, domcart.ErrLineNotFound),
		errors.Is(err, domcheckout.ErrSessionNotFound),
		errors.Is(err, dompayment.ErrIntentNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domcart.ErrInsufficientStock),
		errors.Is(err, domcart.ErrQuantityTooLow),
		errors.Is(err, domcatalog.ErrInvalidProduct),
		errors.Is(err, domcatalog.ErrInvalidStock),
		errors.Is(err, domcatalog.ErrInsufficientStock),
		errors.Is(err, domcheckout.ErrShippingIncomplete),
		errors.Is(err, appcheckout.ErrEmptyCart),
		errors.Is(err, appcheckout.ErrPaymentIncomplete):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domcheckout.ErrIllegalTransition),
		errors.Is(err, appcheckout.ErrIntentMismatch):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, appadmin.ErrInvalidCredentials),
		errors.Is(err, appadmin.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err)
	default:
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
