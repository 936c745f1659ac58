// internal/core/ports/store.go
package ports

import (
	"context"

	"github.com/mcanales/floreria-be/internal/core/domain"
)

// The persistence boundary is a flat collection store: each collection is
// read and written whole, last writer wins. There is no query capability at
// this boundary; all filtering happens in memory after a full read.

// ProductStore holds the product catalog as one replaceable collection
type ProductStore interface {
	List(ctx context.Context) ([]domain.Product, error)
	ReplaceAll(ctx context.Context, products []domain.Product) error
}

// MovementStore holds the append-only stock movement log
type MovementStore interface {
	List(ctx context.Context) ([]domain.Movement, error)
	Append(ctx context.Context, movement domain.Movement) error
}

// SaleStore holds the append-only sales log
type SaleStore interface {
	List(ctx context.Context) ([]domain.Sale, error)
	Append(ctx context.Context, sale domain.Sale) error
}

// ShiftStore holds the single turno state record
type ShiftStore interface {
	Get(ctx context.Context) (domain.ShiftState, error)
	Set(ctx context.Context, state domain.ShiftState) error
}

// Store bundles the four collections one backend provides together
type Store interface {
	Products() ProductStore
	Movements() MovementStore
	Sales() SaleStore
	Shift() ShiftStore
	Ping(ctx context.Context) error
	Close() error
}
