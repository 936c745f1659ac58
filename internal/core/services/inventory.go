// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// InventoryService handles the catalog and the stock-movement log. Every
// stock mutation follows one contract: read the current product, compute the
// new stock, validate it stays non-negative, write the collection back.
type InventoryService struct {
	products  ports.ProductStore
	movements ports.MovementStore
	logger    *slog.Logger
}

// Statically assert that *InventoryService implements the InventoryService interface.
var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service
func NewInventoryService(products ports.ProductStore, movements ports.MovementStore, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		products:  products,
		movements: movements,
		logger:    logger.With(slog.String("service", "inventory")),
	}
}

// ListProducts returns the catalog, optionally filtered by category
func (s *InventoryService) ListProducts(ctx context.Context, category domain.Category) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if category == "" {
		return products, nil
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// AddProduct appends a new product to the catalog
func (s *InventoryService) AddProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	product.PrepareForStorage()

	products, err := s.products.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	products = append(products, *product)

	if err := s.products.ReplaceAll(ctx, products); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.InfoContext(ctx, "product added",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name))
	return nil
}

// UpdateProduct replaces an existing catalog entry in place
func (s *InventoryService) UpdateProduct(ctx context.Context, id string, product *domain.Product) error {
	product.ID = id
	if err := product.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	found := false
	for i := range products {
		if products[i].ID == id {
			if product.CreatedAt.IsZero() {
				product.CreatedAt = products[i].CreatedAt
			}
			products[i] = *product
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	if err := s.products.ReplaceAll(ctx, products); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated", slog.String("product_id", id))
	return nil
}

// DeleteProduct removes a product from the catalog. Movement and sale
// history keeps its denormalized name snapshots.
func (s *InventoryService) DeleteProduct(ctx context.Context, id string) error {
	products, err := s.products.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	filtered := make([]domain.Product, 0, len(products))
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, p)
	}
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}

	if err := s.products.ReplaceAll(ctx, filtered); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

// RegisterMovement applies one stock movement and appends it to the log.
// Decrements (merma, ocupado_ramo) that exceed the live stock fail with
// InsufficientStockError and write nothing.
func (s *InventoryService) RegisterMovement(ctx context.Context, req ports.MovementRequest) (*domain.Movement, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("unknown movement tipo: %s", req.Kind)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("cantidad must be positive")
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	idx := -1
	for i := range products {
		if products[i].ID == req.ProductID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, req.ProductID)
	}
	product := &products[idx]

	if req.Kind.IsDecrement() {
		if req.Quantity > product.Stock {
			return nil, &domain.InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   req.Quantity,
			}
		}
		product.Stock -= req.Quantity
	} else {
		product.Stock += req.Quantity
	}

	movement := &domain.Movement{
		Kind:        req.Kind,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
	}
	if err := movement.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	movement.PrepareForStorage()

	if err := s.products.ReplaceAll(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}
	if err := s.movements.Append(ctx, *movement); err != nil {
		return nil, fmt.Errorf("failed to append movement: %w", err)
	}

	s.logger.InfoContext(ctx, "movement registered",
		slog.String("product_id", product.ID),
		slog.String("tipo", string(req.Kind)),
		slog.Int("cantidad", req.Quantity),
		slog.Int("stock", product.Stock))
	return movement, nil
}

// ListMovements returns the full movement log
func (s *InventoryService) ListMovements(ctx context.Context) ([]domain.Movement, error) {
	movements, err := s.movements.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}

// LowStock returns products at or below their minimum stock, split by
// category and sorted by name, for the production/restock list.
func (s *InventoryService) LowStock(ctx context.Context) (*ports.ProductionList, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	list := &ports.ProductionList{}
	for _, p := range products {
		if !p.IsLowStock() {
			continue
		}
		switch p.Category {
		case domain.CategoryLooseFlower:
			list.Flowers = append(list.Flowers, p)
		case domain.CategoryBouquet:
			list.Bouquets = append(list.Bouquets, p)
		}
	}

	byName := func(items []domain.Product) func(i, j int) bool {
		return func(i, j int) bool {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		}
	}
	sort.Slice(list.Flowers, byName(list.Flowers))
	sort.Slice(list.Bouquets, byName(list.Bouquets))

	return list, nil
}

// ResetInventory overwrites the stock of every listed product and saves the
// new values as the opening snapshot, for registering a full recount.
func (s *InventoryService) ResetInventory(ctx context.Context, stocks map[string]int) error {
	products, err := s.products.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	updated := 0
	for i := range products {
		stock, ok := stocks[products[i].ID]
		if !ok {
			continue
		}
		if stock < 0 {
			return fmt.Errorf("stock cannot be negative for %s", products[i].Name)
		}
		opening := stock
		products[i].Stock = stock
		products[i].OpeningStock = &opening
		updated++
	}

	if err := s.products.ReplaceAll(ctx, products); err != nil {
		return fmt.Errorf("failed to save inventory reset: %w", err)
	}

	s.logger.InfoContext(ctx, "inventory reset", slog.Int("products_updated", updated))
	return nil
}
