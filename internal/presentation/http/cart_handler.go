package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appcart "github.com/amelia-salon/storefront/internal/application/cart"
	domcart "github.com/amelia-salon/storefront/internal/domain/cart"
)

type CartHandler struct {
	carts *appcart.Service
}

func NewCartHandler(carts *appcart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartResponse struct {
	ID         string         `json:"id"`
	Items      []domcart.Item `json:"items"`
	ItemCount  int            `json:"itemCount"`
	TotalPrice float64        `json:"totalPrice"`
	Currency   string         `json:"currency"`
}

func toCartResponse(c *domcart.Cart) cartResponse {
	items := c.Items
	if items == nil {
		items = []domcart.Item{}
	}
	return cartResponse{
		ID:         c.ID,
		Items:      items,
		ItemCount:  c.ItemCount(),
		TotalPrice: c.TotalPrice(),
		Currency:   c.Currency(),
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), cartIDFrom(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	c, err := h.carts.AddItem(r.Context(), cartIDFrom(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	productID := chi.URLParam(r, "productID")
	c, err := h.carts.SetQuantity(r.Context(), cartIDFrom(r.Context()), productID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	c, err := h.carts.RemoveItem(r.Context(), cartIDFrom(r.Context()), productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), cartIDFrom(r.Context())); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
