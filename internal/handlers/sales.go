// internal/handlers/sales.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// SalesHandler handles sales HTTP requests
type SalesHandler struct {
	service ports.SalesService
	logger  *slog.Logger
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(service ports.SalesService, logger *slog.Logger) *SalesHandler {
	return &SalesHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "sales")),
	}
}

// List handles GET /api/v1/sales
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sales, err := h.service.ListSales(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list sales",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to list sales")
		return
	}
	if sales == nil {
		sales = []domain.Sale{}
	}

	respondJSON(w, http.StatusOK, sales)
}

// Register handles POST /api/v1/sales
func (h *SalesHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ports.SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sale, err := h.service.RegisterSale(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to register sale",
			slog.Int("lines", len(req.Items)),
			slog.String("error", err.Error()))
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondDomainError(w, err, "Failed to register sale")
		return
	}

	respondJSON(w, http.StatusCreated, sale)
}
