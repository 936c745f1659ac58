// internal/handlers/movements.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// MovementHandler handles stock-movement HTTP requests
type MovementHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewMovementHandler creates a new movement handler
func NewMovementHandler(service ports.InventoryService, logger *slog.Logger) *MovementHandler {
	return &MovementHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "movements")),
	}
}

// List handles GET /api/v1/movements
func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	movements, err := h.service.ListMovements(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list movements",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to list movements")
		return
	}
	if movements == nil {
		movements = []domain.Movement{}
	}

	respondJSON(w, http.StatusOK, movements)
}

// Register handles POST /api/v1/movements
func (h *MovementHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ports.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	movement, err := h.service.RegisterMovement(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to register movement",
			slog.String("product_id", req.ProductID),
			slog.String("tipo", string(req.Kind)),
			slog.String("error", err.Error()))
		if isValidationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondDomainError(w, err, "Failed to register movement")
		return
	}

	respondJSON(w, http.StatusCreated, movement)
}
