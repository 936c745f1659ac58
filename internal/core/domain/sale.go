// internal/core/domain/sale.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a cash-register sale was paid
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "efectivo"
	PaymentTransfer PaymentMethod = "transferencia"
	PaymentDebit    PaymentMethod = "debito"
)

// Valid reports whether the method is one of the known payment methods
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentTransfer, PaymentDebit:
		return true
	}
	return false
}

// SaleItem is one line of a sale. ProductName is a denormalized snapshot,
// same as on Movement.
type SaleItem struct {
	ProductID   string `json:"producto_id"`
	ProductName string `json:"producto_nombre"`
	Quantity    int    `json:"cantidad"`
}

// Sale is one entry in the append-only sales log. Delivery-platform sales
// (IsDelivery) deplete stock but carry no revenue: Total is forced to zero
// and PaymentMethod stays unset, and they are excluded from the daily total.
type Sale struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"fecha"`
	Items         []SaleItem      `json:"productos"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod *PaymentMethod  `json:"metodo_pago,omitempty"`
	IsDelivery    bool            `json:"es_uber,omitempty"`
	Notes         string          `json:"notas,omitempty"`
}

// Validate performs domain validation on the sale
func (s *Sale) Validate() error {
	if len(s.Items) == 0 {
		return fmt.Errorf("at least one producto is required")
	}
	for _, item := range s.Items {
		if item.ProductID == "" {
			return fmt.Errorf("producto_id is required on every line")
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("cantidad must be positive for %s", item.ProductName)
		}
	}
	if s.Total.IsNegative() {
		return fmt.Errorf("total cannot be negative")
	}
	if s.PaymentMethod != nil && !s.PaymentMethod.Valid() {
		return fmt.Errorf("unknown metodo_pago: %s", *s.PaymentMethod)
	}
	return nil
}

// PrepareForStorage fills generated fields and enforces the delivery
// invariant before the append
func (s *Sale) PrepareForStorage() {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}
	if s.IsDelivery {
		s.Total = decimal.Zero
		s.PaymentMethod = nil
	}
}

// QuantityOf returns the units of the given product sold in this sale,
// zero when the product does not appear
func (s *Sale) QuantityOf(productID string) int {
	total := 0
	for _, item := range s.Items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// SameDay reports whether the sale happened on the given calendar day
func (s *Sale) SameDay(day time.Time) bool {
	y1, m1, d1 := s.Timestamp.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
