// internal/core/domain/product.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category represents product categories
type Category string

// Category constants
const (
	CategoryBouquet     Category = "ramos"
	CategoryLooseFlower Category = "flores_sueltas"
)

// Defaults applied when the import reconciler creates a product that only
// exists as a name in a spreadsheet row.
const (
	DefaultMinStock = 5
	DefaultUnit     = "unidad"
)

// Product is a catalog entry. Stock is always the authoritative live
// quantity; OpeningStock is a snapshot taken when a shift opens (or set by
// an import) and is overwritten on every re-open.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"nombre"`
	Category     Category  `json:"categoria"`
	Stock        int       `json:"stock"`
	MinStock     int       `json:"stock_minimo"`
	OpeningStock *int      `json:"stock_apertura,omitempty"`
	Unit         string    `json:"unidad"`
	PhotoRef     string    `json:"foto,omitempty"`
	CreatedAt    time.Time `json:"fecha_creacion"`
}

// Validate performs domain validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("nombre is required")
	}
	if p.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if p.MinStock < 0 {
		return fmt.Errorf("stock_minimo cannot be negative")
	}
	if p.Category == "" {
		p.Category = CategoryLooseFlower
	}
	if p.Category != CategoryBouquet && p.Category != CategoryLooseFlower {
		return fmt.Errorf("unknown categoria: %s", p.Category)
	}
	return nil
}

// PrepareForStorage fills generated fields before the first write
func (p *Product) PrepareForStorage() {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
}

// OpeningOrCurrent returns the opening-stock snapshot, falling back to the
// live stock when no shift has ever snapshotted this product.
func (p *Product) OpeningOrCurrent() int {
	if p.OpeningStock != nil {
		return *p.OpeningStock
	}
	return p.Stock
}

// IsLowStock reports whether the product is at or below its restock threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
