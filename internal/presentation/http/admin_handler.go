package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	appadmin "github.com/amelia-salon/storefront/internal/application/admin"
	domcatalog "github.com/amelia-salon/storefront/internal/domain/catalog"
)

const maxImageUploadBytes = 10 << 20 // 10MB

type AdminHandler struct {
	admin *appadmin.Service
}

func NewAdminHandler(admin *appadmin.Service) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	token, err := h.admin.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false, Message: "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Success: true, Token: token})
}

type createProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	Featured    bool    `json:"featured"`
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	product, err := h.admin.CreateProduct(r.Context(), appadmin.CreateProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Currency:    req.Currency,
		Description: req.Description,
		Image:       req.Image,
		Stock:       req.Stock,
		Category:    req.Category,
		Featured:    req.Featured,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, productResponse{Success: true, Data: *product})
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Currency    *string  `json:"currency"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Featured    *bool    `json:"featured"`
}

// UpdateProduct handles both full and partial updates; absent fields
// are left untouched.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	productID := chi.URLParam(r, "productID")
	product, err := h.admin.UpdateProduct(r.Context(), productID, domcatalog.Update{
		Name:        req.Name,
		Price:       req.Price,
		Currency:    req.Currency,
		Description: req.Description,
		Image:       req.Image,
		Stock:       req.Stock,
		Category:    req.Category,
		Featured:    req.Featured,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse{Success: true, Data: *product})
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if err := h.admin.DeleteProduct(r.Context(), productID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{}})
}

type setStockRequest struct {
	Products []appadmin.StockEdit `json:"products"`
}

// SetStock applies a bulk absolute stock edit from the admin list view.
func (h *AdminHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	var req setStockRequest
	if err := decodeJSON(r.Context(), r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Products) == 0 {
		writeMessage(w, http.StatusBadRequest, "products is required")
		return
	}

	results := h.admin.SetStock(r.Context(), req.Products)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "results": results})
}

// UploadImage accepts a multipart form with an "image" part and returns
// the hosted URL.
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	url, err := h.admin.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
