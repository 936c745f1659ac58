// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure modes every user action can surface.
// Operations abort at the first one; nothing is retried automatically.
var (
	// ErrEmptyCatalog rejects opening a shift before any product exists.
	ErrEmptyCatalog = errors.New("no products in catalog")

	// ErrNoData rejects an export when both report sheets are empty.
	ErrNoData = errors.New("nothing to export")

	// ErrProductNotFound is returned by product lookups by id.
	ErrProductNotFound = errors.New("product not found")

	// ErrCodec wraps spreadsheet encode/decode failures, typically a
	// malformed or foreign file on import.
	ErrCodec = errors.New("spreadsheet codec failure")

	// ErrShareUnavailable means no export/publish target is configured or
	// reachable.
	ErrShareUnavailable = errors.New("share target unavailable")
)

// InsufficientStockError rejects any decrement larger than the live stock,
// naming the product and what is actually available. The triggering batch
// commits nothing.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: only %d available, requested %d",
		e.ProductName, e.Available, e.Requested)
}

// IsInsufficientStock reports whether err is an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}
