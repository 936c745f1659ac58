// internal/handlers/dashboard.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcanales/floreria-be/internal/adapters/redisstore"
	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// DashboardHandler handles the aggregated register view
type DashboardHandler struct {
	inventory ports.InventoryService
	sales     ports.SalesService
	shift     ports.ShiftService
	cache     ports.CacheRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewDashboardHandler creates a new dashboard handler. cache may be nil,
// in which case every request recomputes the view.
func NewDashboardHandler(
	inventory ports.InventoryService,
	sales ports.SalesService,
	shift ports.ShiftService,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		inventory: inventory,
		sales:     sales,
		shift:     shift,
		cache:     cache,
		logger:    logger.With(slog.String("handler", "dashboard")),
		now:       time.Now,
	}
}

// DashboardData is the single-screen summary the register shows
type DashboardData struct {
	Shift     domain.ShiftState    `json:"turno"`
	Today     ports.DailySummary   `json:"hoy"`
	LowStock  ports.ProductionList `json:"stock_bajo"`
	Products  int                  `json:"productos"`
	Timestamp time.Time            `json:"timestamp"`
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var dashboard DashboardData
	load := func() (interface{}, error) {
		return h.loadDashboardData(ctx)
	}

	var err error
	if h.cache != nil {
		err = h.cache.GetOrSet(ctx, redisstore.KeyDashboard, &dashboard, load, time.Minute)
	} else {
		var data *DashboardData
		if data, err = h.loadDashboardData(ctx); err == nil {
			dashboard = *data
		}
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	respondJSON(w, http.StatusOK, dashboard)
}

func (h *DashboardHandler) loadDashboardData(ctx context.Context) (*DashboardData, error) {
	state, err := h.shift.State(ctx)
	if err != nil {
		return nil, err
	}

	today, err := h.sales.DailyTotal(ctx, h.now())
	if err != nil {
		return nil, err
	}

	lowStock, err := h.inventory.LowStock(ctx)
	if err != nil {
		return nil, err
	}

	products, err := h.inventory.ListProducts(ctx, "")
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Shift:     state,
		Today:     *today,
		LowStock:  *lowStock,
		Products:  len(products),
		Timestamp: h.now(),
	}, nil
}
