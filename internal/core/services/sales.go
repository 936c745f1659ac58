// internal/core/services/sales.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// SalesService handles the append-only sales log. A sale is all-or-nothing:
// every line is validated against live stock before any stock is touched,
// so a rejected sale leaves the catalog exactly as it was.
type SalesService struct {
	products ports.ProductStore
	sales    ports.SaleStore
	logger   *slog.Logger
}

// Statically assert that *SalesService implements the SalesService interface.
var _ ports.SalesService = (*SalesService)(nil)

// NewSalesService creates a new sales service
func NewSalesService(products ports.ProductStore, sales ports.SaleStore, logger *slog.Logger) *SalesService {
	return &SalesService{
		products: products,
		sales:    sales,
		logger:   logger.With(slog.String("service", "sales")),
	}
}

// RegisterSale validates and records one sale, depleting stock for every
// line. Delivery-platform sales deplete stock but carry no revenue.
func (s *SalesService) RegisterSale(ctx context.Context, req ports.SaleRequest) (*domain.Sale, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("at least one producto is required")
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	index := make(map[string]int, len(products))
	for i := range products {
		index[products[i].ID] = i
	}

	// Requested lines may repeat a product; validate against the sum.
	requested := make(map[string]int, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("cantidad must be positive")
		}
		requested[line.ProductID] += line.Quantity
	}
	for id, qty := range requested {
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		if qty > products[i].Stock {
			return nil, &domain.InsufficientStockError{
				ProductName: products[i].Name,
				Available:   products[i].Stock,
				Requested:   qty,
			}
		}
	}

	items := make([]domain.SaleItem, 0, len(req.Items))
	for _, line := range req.Items {
		i := index[line.ProductID]
		products[i].Stock -= line.Quantity
		items = append(items, domain.SaleItem{
			ProductID:   line.ProductID,
			ProductName: products[i].Name,
			Quantity:    line.Quantity,
		})
	}

	sale := &domain.Sale{
		Items:         items,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		IsDelivery:    req.IsDelivery,
		Notes:         req.Notes,
	}
	if err := sale.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	sale.PrepareForStorage()

	if err := s.products.ReplaceAll(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	if err := s.sales.Append(ctx, *sale); err != nil {
		return nil, fmt.Errorf("failed to append sale: %w", err)
	}

	s.logger.InfoContext(ctx, "sale registered",
		slog.String("sale_id", sale.ID),
		slog.Int("lines", len(sale.Items)),
		slog.String("total", sale.Total.String()),
		slog.Bool("delivery", sale.IsDelivery))
	return sale, nil
}

// ListSales returns the full sales log
func (s *SalesService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

// DailyTotal sums the cash-register revenue of one calendar day.
// Delivery-platform sales are counted separately and contribute nothing to
// the total.
func (s *SalesService) DailyTotal(ctx context.Context, day time.Time) (*ports.DailySummary, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	summary := &ports.DailySummary{
		Day:   day,
		Total: decimal.Zero,
	}
	for _, sale := range sales {
		if !sale.SameDay(day) {
			continue
		}
		if sale.IsDelivery {
			summary.DeliveryCount++
			continue
		}
		summary.Total = summary.Total.Add(sale.Total)
		summary.Count++
	}
	return summary, nil
}
