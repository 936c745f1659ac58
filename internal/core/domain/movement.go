// internal/core/domain/movement.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MovementKind represents the non-sale stock change types
type MovementKind string

const (
	// MovementLoss is shrinkage: wilted or damaged flowers written off.
	MovementLoss MovementKind = "merma"
	// MovementRestock is a supply delivery that increments stock.
	MovementRestock MovementKind = "abastecimiento"
	// MovementBouquetUse is loose flowers consumed assembling a bouquet.
	MovementBouquetUse MovementKind = "ocupado_ramo"
)

// IsDecrement reports whether the kind removes units from stock
func (k MovementKind) IsDecrement() bool {
	return k == MovementLoss || k == MovementBouquetUse
}

// Valid reports whether the kind is one of the known movement types
func (k MovementKind) Valid() bool {
	switch k {
	case MovementLoss, MovementRestock, MovementBouquetUse:
		return true
	}
	return false
}

// Movement is one entry in the append-only stock movement log. ProductName
// is denormalized at creation time so history stays readable after the
// product is renamed or deleted; it is never refreshed from the live product.
type Movement struct {
	ID          string       `json:"id"`
	Kind        MovementKind `json:"tipo"`
	ProductID   string       `json:"producto_id"`
	ProductName string       `json:"producto_nombre"`
	Quantity    int          `json:"cantidad"`
	Timestamp   time.Time    `json:"fecha"`
	Notes       string       `json:"notas,omitempty"`
}

// Validate performs domain validation on the movement
func (m *Movement) Validate() error {
	if !m.Kind.Valid() {
		return fmt.Errorf("unknown movement tipo: %s", m.Kind)
	}
	if m.ProductID == "" {
		return fmt.Errorf("producto_id is required")
	}
	if m.Quantity <= 0 {
		return fmt.Errorf("cantidad must be positive")
	}
	return nil
}

// PrepareForStorage fills generated fields before the append
func (m *Movement) PrepareForStorage() {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
}

// InWindow reports whether the movement falls inside [from, to)
func (m *Movement) InWindow(from, to time.Time) bool {
	return !m.Timestamp.Before(from) && m.Timestamp.Before(to)
}
