// internal/handlers/products.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service ports.InventoryService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "products")),
	}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := domain.Category(r.URL.Query().Get("categoria"))
	if category != "" && category != domain.CategoryBouquet && category != domain.CategoryLooseFlower {
		respondError(w, http.StatusBadRequest, "unknown categoria")
		return
	}

	products, err := h.service.ListProducts(ctx, category)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.AddProduct(ctx, &product); err != nil {
		h.logger.ErrorContext(ctx, "failed to create product",
			slog.String("error", err.Error()))
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondDomainError(w, err, "Failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.UpdateProduct(ctx, id, &product); err != nil {
		h.logger.ErrorContext(ctx, "failed to update product",
			slog.String("product_id", id),
			slog.String("error", err.Error()))
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondDomainError(w, err, "Failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/v1/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := h.service.DeleteProduct(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete product",
			slog.String("product_id", id),
			slog.String("error", err.Error()))
		respondDomainError(w, err, "Failed to delete product")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Product deleted successfully",
		"id":      id,
	})
}

// LowStock handles GET /api/v1/products/low-stock
func (h *ProductHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.service.LowStock(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build production list",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to build production list")
		return
	}
	if list.Flowers == nil {
		list.Flowers = []domain.Product{}
	}
	if list.Bouquets == nil {
		list.Bouquets = []domain.Product{}
	}

	// formato=texto returns the forwardable plain-text list instead of JSON
	if r.URL.Query().Get("formato") == "texto" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(list.Text()))
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// ResetRequest is the body of a bulk inventory reset: new stock per
// product id
type ResetRequest struct {
	Stocks map[string]int `json:"stocks"`
}

// Reset handles POST /api/v1/products/reset
func (h *ProductHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Stocks) == 0 {
		respondError(w, http.StatusBadRequest, "stocks is required")
		return
	}

	if err := h.service.ResetInventory(ctx, req.Stocks); err != nil {
		h.logger.ErrorContext(ctx, "failed to reset inventory",
			slog.String("error", err.Error()))
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondDomainError(w, err, "Failed to reset inventory")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Inventory reset successfully",
		"products": len(req.Stocks),
	})
}
