// internal/core/ports/services.go
package ports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcanales/floreria-be/internal/core/domain"
)

// InventoryService is the application port for catalog and stock-movement
// operations. This interface is implemented by the application service.
type InventoryService interface {
	ListProducts(ctx context.Context, category domain.Category) ([]domain.Product, error)
	AddProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, id string, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	RegisterMovement(ctx context.Context, req MovementRequest) (*domain.Movement, error)
	ListMovements(ctx context.Context) ([]domain.Movement, error)
	LowStock(ctx context.Context) (*ProductionList, error)
	ResetInventory(ctx context.Context, stocks map[string]int) error
}

// SalesService is the application port for the sales log
type SalesService interface {
	RegisterSale(ctx context.Context, req SaleRequest) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]domain.Sale, error)
	DailyTotal(ctx context.Context, day time.Time) (*DailySummary, error)
}

// ShiftService is the application port for the turno lifecycle
type ShiftService interface {
	State(ctx context.Context) (domain.ShiftState, error)
	Open(ctx context.Context) (domain.ShiftState, error)
	Close(ctx context.Context) (*ExportFile, error)
}

// ReportService builds reconciliation reports and export files
type ReportService interface {
	BuildShiftReport(ctx context.Context, now time.Time) (*domain.Report, error)
	BuildDailyReport(ctx context.Context, now time.Time) (*domain.Report, error)
	ExportDaily(ctx context.Context) (*ExportFile, error)
}

// ImportService reconciles an externally-produced report back into local
// state under an explicit handoff mode
type ImportService interface {
	Import(ctx context.Context, data []byte, mode ImportMode) (*ImportSummary, error)
}

// MovementRequest carries one stock movement to register
type MovementRequest struct {
	ProductID string              `json:"producto_id"`
	Kind      domain.MovementKind `json:"tipo"`
	Quantity  int                 `json:"cantidad"`
	Notes     string              `json:"notas,omitempty"`
}

// SaleRequest carries one sale to register. Items reference products by id;
// quantities are validated against live stock before anything is written.
type SaleRequest struct {
	Items         []SaleLineRequest     `json:"productos"`
	Total         decimal.Decimal       `json:"total"`
	PaymentMethod *domain.PaymentMethod `json:"metodo_pago,omitempty"`
	IsDelivery    bool                  `json:"es_delivery,omitempty"`
	Notes         string                `json:"notas,omitempty"`
}

// SaleLineRequest is one requested sale line
type SaleLineRequest struct {
	ProductID string `json:"producto_id"`
	Quantity  int    `json:"cantidad"`
}

// DailySummary is the cash-register view of one day: delivery-platform
// sales never count toward Total or Count.
type DailySummary struct {
	Day           time.Time       `json:"dia"`
	Total         decimal.Decimal `json:"total"`
	Count         int             `json:"ventas"`
	DeliveryCount int             `json:"ventas_delivery"`
}

// ProductionList groups low-stock products for the restock/production run
type ProductionList struct {
	Flowers  []domain.Product `json:"flores"`
	Bouquets []domain.Product `json:"ramos"`
}

// Text renders the list as the plain-text message the shop forwards to the
// supplier chat: one "name: stock/min" line per product.
func (l *ProductionList) Text() string {
	var b strings.Builder
	b.WriteString("Lista de Producción\n")

	section := func(title string, items []domain.Product) {
		if len(items) == 0 {
			return
		}
		b.WriteString("\n" + title + ":\n")
		for _, p := range items {
			fmt.Fprintf(&b, "- %s: %d/%d\n", p.Name, p.Stock, p.MinStock)
		}
	}
	section("Flores", l.Flowers)
	section("Ramos", l.Bouquets)

	if len(l.Flowers) == 0 && len(l.Bouquets) == 0 {
		b.WriteString("\nSin faltantes.\n")
	}
	return b.String()
}

// ExportFile is an encoded workbook ready to download or publish
type ExportFile struct {
	Name string
	Data []byte
}

// ImportMode selects the cross-device reconciliation policy
type ImportMode string

const (
	// ImportTransfer continues the same shift on this device: stocks and
	// sales move over, the shift window is preserved.
	ImportTransfer ImportMode = "transfer"
	// ImportNewShift starts a fresh shift whose opening inventory is the
	// prior shift's closing inventory; prior sales are not re-imported.
	ImportNewShift ImportMode = "new_shift"
)

// Valid reports whether the mode is one of the known import modes
func (m ImportMode) Valid() bool {
	return m == ImportTransfer || m == ImportNewShift
}

// ImportSummary counts what an import actually applied; skipped rows are
// individually dropped, never fatal.
type ImportSummary struct {
	NewProducts     int `json:"productos_nuevos"`
	UpdatedProducts int `json:"productos_actualizados"`
	ImportedSales   int `json:"ventas_importadas"`
	SkippedRows     int `json:"filas_omitidas"`
}
