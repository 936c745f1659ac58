// internal/core/domain/report.go
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Sheet and column names of the exported workbook. These strings are the
// wire format of previously-exported files: imports match on them, so they
// must not change.
const (
	SheetInventory = "Inventario"
	SheetSales     = "Ventas"

	ColProductName = "Nombre Producto"
	ColOpening     = "Inventario Apertura"
	ColRestocked   = "Abastecimiento"
	ColSold        = "Vendidos"
	ColBouquetUse  = "Ocupado en Ramo"
	ColLost        = "Mermas"
	ColClosing     = "Inventario Cierre"
	ColFinal       = "Inventario Final"
	ColCurrent     = "Stock Actual"

	ColTime          = "Hora"
	ColProducts      = "Productos"
	ColPrice         = "Precio"
	ColPaymentMethod = "Método de Pago"
	ColNotes         = "Notas"

	// DeliveryMarker replaces price and payment method on delivery-platform
	// sale rows.
	DeliveryMarker = "UBER"
)

// ReportKind selects which closing-column header the inventory sheet uses:
// a shift close writes "Inventario Cierre", an ad hoc mid-shift export
// writes "Inventario Final". Both carry the live stock.
type ReportKind string

const (
	ReportShiftClose ReportKind = "cierre"
	ReportAdHoc      ReportKind = "reporte"
)

// ClosingHeader returns the header used for the closing-stock column
func (k ReportKind) ClosingHeader() string {
	if k == ReportShiftClose {
		return ColClosing
	}
	return ColFinal
}

// InventoryRow is the per-product reconciliation ledger. Closing is the
// live stock at generation time, not a recomputation: when no out-of-band
// stock edit happened inside the window it satisfies
// Closing == Opening + Restocked - Sold - BouquetUse - Lost.
type InventoryRow struct {
	ProductName string
	Opening     int
	Restocked   int
	Sold        int
	BouquetUse  int
	Lost        int
	Closing     int
}

// Balanced reports whether the ledger identity holds for this row
func (r InventoryRow) Balanced() bool {
	return r.Closing == r.Opening+r.Restocked-r.Sold-r.BouquetUse-r.Lost
}

// SaleRow is the per-sale display row of the sales sheet
type SaleRow struct {
	Time          string
	Products      string
	Price         string
	PaymentMethod string
	Notes         string
}

// Report is the reconciliation report a shift close or ad hoc export
// produces: one inventory row per product, one sale row per in-window sale.
type Report struct {
	Kind      ReportKind
	From      time.Time
	To        time.Time
	Inventory []InventoryRow
	Sales     []SaleRow
}

// Empty reports whether there is nothing to export
func (r *Report) Empty() bool {
	return len(r.Inventory) == 0 && len(r.Sales) == 0
}

// FileName returns the export file name: Cierre_Turno_<date>.xlsx for shift
// closes (date of the shift opening) and Reporte_<date>_<HH-MM-SS>.xlsx for
// ad hoc exports.
func (r *Report) FileName() string {
	if r.Kind == ReportShiftClose {
		return fmt.Sprintf("Cierre_Turno_%s.xlsx", r.From.Format("2006-01-02"))
	}
	return fmt.Sprintf("Reporte_%s_%s.xlsx", r.To.Format("2006-01-02"), r.To.Format("15-04-05"))
}

// FormatSaleProducts renders sale items as the "name (xqty), name (xqty)"
// summary the sales sheet carries
func FormatSaleProducts(items []SaleItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s (x%d)", item.ProductName, item.Quantity))
	}
	return strings.Join(parts, ", ")
}

// FormatSalePrice renders the price cell: the delivery marker for
// delivery-platform sales, "$<total>" otherwise
func FormatSalePrice(s *Sale) string {
	if s.IsDelivery {
		return DeliveryMarker
	}
	return "$" + s.Total.String()
}

// FormatSalePayment renders the payment-method cell, capitalized, defaulting
// to Efectivo when the method was never recorded
func FormatSalePayment(s *Sale) string {
	if s.IsDelivery {
		return DeliveryMarker
	}
	method := PaymentCash
	if s.PaymentMethod != nil {
		method = *s.PaymentMethod
	}
	name := string(method)
	return strings.ToUpper(name[:1]) + name[1:]
}
