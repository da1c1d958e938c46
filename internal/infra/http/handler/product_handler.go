package handler

import (
	"net/http"
	"time"

	"github.com/stocklane/api/internal/app"
	"github.com/stocklane/api/internal/infra/http/middleware"
	"github.com/stocklane/api/pkg/apierror"
	"github.com/stocklane/api/pkg/domain/product"
	"github.com/stocklane/api/pkg/logger"
	"github.com/stocklane/api/pkg/validator"
)

// ProductHandler handles product HTTP requests. All routes operate
// within the tenant bound to the request.
type ProductHandler struct {
	service   *app.ProductService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *app.ProductService, v *validator.Validator, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service:   svc,
		validator: v,
		logger:    log.With("handler", "product"),
	}
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	SKU      string `json:"sku" validate:"required,min=1,max=64"`
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// AdjustQuantityRequest is the request body for stock adjustments.
type AdjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	p, err := h.service.CreateProduct(r.Context(), middleware.GetUserID(r.Context()), app.CreateProductInput{
		SKU:      req.SKU,
		Name:     req.Name,
		Quantity: req.Quantity,
	})
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(p))
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.service.GetProduct(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(p))
}

// List handles GET /api/v1/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	respondJSON(w, http.StatusOK, resp)
}

// Update handles PUT /api/v1/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	p, err := h.service.UpdateProduct(r.Context(), middleware.GetUserID(r.Context()), id, app.UpdateProductInput{
		Name: req.Name,
	})
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(p))
}

// AdjustQuantity handles POST /api/v1/products/{id}/adjust.
func (h *ProductHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req AdjustQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateStruct(w, h.validator, &req) {
		return
	}

	p, err := h.service.AdjustQuantity(r.Context(), middleware.GetUserID(r.Context()), id, req.Delta)
	if err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(p))
}

// Delete handles DELETE /api/v1/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		apierror.FromDomain(err).WriteJSON(w)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func toProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID().String(),
		TenantID:  p.TenantID().String(),
		SKU:       p.SKU(),
		Name:      p.Name(),
		Quantity:  p.Quantity(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}
