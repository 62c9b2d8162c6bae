package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appcatalog "github.com/amelia-salon/storefront/internal/application/catalog"
	domcatalog "github.com/amelia-salon/storefront/internal/domain/catalog"
)

type CatalogHandler struct {
	catalog *appcatalog.Service
}

func NewCatalogHandler(catalog *appcatalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type productListResponse struct {
	Success bool                 `json:"success"`
	Data    []domcatalog.Product `json:"data"`
}

type productResponse struct {
	Success bool               `json:"success"`
	Data    domcatalog.Product `json:"data"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if products == nil {
		products = []domcatalog.Product{}
	}
	writeJSON(w, http.StatusOK, productListResponse{Success: true, Data: products})
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	product, err := h.catalog.Get(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Success: true, Data: *product})
}
