package httptransport

import (
	"net/http"

	appcheckout "github.com/amelia-salon/storefront/internal/application/checkout"
	domcheckout "github.com/amelia-salon/storefront/internal/domain/checkout"
	dompayment "github.com/amelia-salon/storefront/internal/domain/payment"
)

type CheckoutHandler struct {
	checkout *appcheckout.Service
}

func NewCheckoutHandler(checkout *appcheckout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type shippingResponse struct {
	Success bool              `json:"success"`
	State   domcheckout.State `json:"state,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SubmitShipping validates the shipping form. Field failures come back
// with the field name so the form can show inline errors.
func (h *CheckoutHandler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	var info domcheckout.ShippingInfo
	if err := decodeJSON(r.Context(), r, &info); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	fieldErrs, err := h.checkout.SubmitShipping(r.Context(), cartIDFrom(r.Context()), info)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusBadRequest, shippingResponse{Success: false, Errors: fieldErrs})
		return
	}
	writeJSON(w, http.StatusOK, shippingResponse{Success: true, State: domcheckout.StateCollectingPayment})
}

// CreatePaymentIntent opens the charge with the payment processor.
// Processor errors are surfaced verbatim; the buyer may retry.
func (h *CheckoutHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkout.CreatePaymentIntent(r.Context(), cartIDFrom(r.Context()))
	if err != nil {
		if isDomainErr(err) {
			writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type completeRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
	OrderID         string `json:"order_id"`
	Status          string `json:"status"`
	ErrorMessage    string `json:"error_message"`
}

// Complete finishes the checkout after client-side confirmation. A
// failed confirmation records the processor message verbatim and leaves
// the session retryable.
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cartID := cartIDFrom(r.Context())

	if req.Status != string(dompayment.StatusSucceeded) {
		if err := h.checkout.RecordFailure(r.Context(), cartID, req.ErrorMessage); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"state":   domcheckout.StateFailed,
			"message": req.ErrorMessage,
		})
		return
	}

	result, err := h.checkout.Complete(r.Context(), cartID, req.PaymentIntentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"state":     result.State,
		"orderId":   result.OrderID,
		"inventory": result.Inventory,
	})
}

type statusResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	Amount        int64  `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Created       int64  `json:"created,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

// Status backs the confirmation view: full details only once the
// payment has succeeded.
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	intentID := r.URL.Query().Get("payment_intent_id")
	if intentID == "" {
		writeMessage(w, http.StatusBadRequest, "payment_intent_id is required")
		return
	}

	intent, err := h.checkout.PaymentStatus(r.Context(), intentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if intent.Status != dompayment.StatusSucceeded {
		writeJSON(w, http.StatusOK, statusResponse{
			Status:  string(intent.Status),
			Message: "payment has not completed yet",
		})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:        string(intent.Status),
		Amount:        intent.Amount,
		Currency:      intent.Currency,
		CustomerEmail: intent.CustomerEmail,
		Created:       intent.Created,
		PaymentMethod: intent.PaymentMethod,
	})
}
