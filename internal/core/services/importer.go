// internal/core/services/importer.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// saleLinePattern matches one "name (xqty)" segment of the exported
// products cell.
var saleLinePattern = regexp.MustCompile(`^(.+?)\s*\(x(\d+)\)$`)

// importedNote marks records re-created from a workbook import.
const importedNote = "Importado desde Excel"

// ImportService reconciles an exported workbook back into local state, for
// handing a shift between devices. Rows it cannot make sense of are counted
// and skipped, never fatal: a partially-legible file still transfers what
// it can.
type ImportService struct {
	store  ports.Store
	codec  ports.ReportCodec
	logger *slog.Logger
	now    func() time.Time
}

// Statically assert that *ImportService implements the ImportService interface.
var _ ports.ImportService = (*ImportService)(nil)

// NewImportService creates a new import service
func NewImportService(store ports.Store, codec ports.ReportCodec, logger *slog.Logger) *ImportService {
	return &ImportService{
		store:  store,
		codec:  codec,
		logger: logger.With(slog.String("service", "import")),
		now:    time.Now,
	}
}

// Import decodes the workbook and applies it under the given mode.
//
// transfer continues the same shift here: live stocks, opening snapshots
// and the sales sheet all move over. new_shift starts a fresh shift whose
// opening inventory is the prior shift's closing inventory; prior sales
// stay on the old device.
func (s *ImportService) Import(ctx context.Context, data []byte, mode ports.ImportMode) (*ports.ImportSummary, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown import mode: %s", mode)
	}

	sheets, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCodec, err)
	}
	inventory, ok := sheets[domain.SheetInventory]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q sheet", domain.ErrCodec, domain.SheetInventory)
	}

	summary := &ports.ImportSummary{}

	products, err := s.store.Products().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	byName := make(map[string]int, len(products))
	for i := range products {
		byName[strings.ToLower(strings.TrimSpace(products[i].Name))] = i
	}

	var movements []domain.Movement
	for _, row := range inventory {
		name := strings.TrimSpace(row[domain.ColProductName])
		if name == "" {
			summary.SkippedRows++
			continue
		}

		stock, opening := s.resolveStocks(row, mode)

		if i, exists := byName[strings.ToLower(name)]; exists {
			products[i].Stock = stock
			products[i].OpeningStock = &opening
			summary.UpdatedProducts++
			if mode == ports.ImportTransfer {
				movements = append(movements, rowMovements(row, products[i])...)
			}
			continue
		}

		product := domain.Product{
			Name:         name,
			Category:     domain.CategoryLooseFlower,
			Stock:        stock,
			MinStock:     domain.DefaultMinStock,
			OpeningStock: &opening,
		}
		product.PrepareForStorage()
		byName[strings.ToLower(name)] = len(products)
		products = append(products, product)
		summary.NewProducts++
	}

	if err := s.store.Products().ReplaceAll(ctx, products); err != nil {
		return nil, fmt.Errorf("failed to save imported catalog: %w", err)
	}
	for _, m := range movements {
		if err := s.store.Movements().Append(ctx, m); err != nil {
			return nil, fmt.Errorf("failed to append imported movement: %w", err)
		}
	}

	if mode == ports.ImportTransfer {
		imported, skipped, err := s.importSales(ctx, sheets[domain.SheetSales], products, byName)
		if err != nil {
			return nil, err
		}
		summary.ImportedSales = imported
		summary.SkippedRows += skipped
	}

	if err := s.applyShiftState(ctx, mode); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "import applied",
		slog.String("mode", string(mode)),
		slog.Int("new_products", summary.NewProducts),
		slog.Int("updated_products", summary.UpdatedProducts),
		slog.Int("imported_sales", summary.ImportedSales),
		slog.Int("skipped_rows", summary.SkippedRows))
	return summary, nil
}

// resolveStocks picks the live and opening stock for a row. Multiple export
// format versions coexist, so each value resolves through an ordered
// fallback chain over the known column names.
func (s *ImportService) resolveStocks(row ports.Row, mode ports.ImportMode) (stock, opening int) {
	if mode == ports.ImportNewShift {
		// The prior shift's closing inventory becomes this shift's baseline.
		stock = firstInt(row, 0,
			domain.ColClosing, domain.ColFinal, domain.ColCurrent)
		return stock, stock
	}
	stock = firstInt(row, 0,
		domain.ColFinal, domain.ColClosing, domain.ColCurrent)
	opening = firstInt(row, stock, domain.ColOpening)
	return stock, opening
}

// rowMovements re-creates the in-window restock and shrinkage an inventory
// row carries. Without them the next close on this device would see
// opening + 0 - sold and report the transferred products as unbalanced.
func rowMovements(row ports.Row, product domain.Product) []domain.Movement {
	kinds := []struct {
		column string
		kind   domain.MovementKind
	}{
		{domain.ColRestocked, domain.MovementRestock},
		{domain.ColLost, domain.MovementLoss},
	}

	var movements []domain.Movement
	for _, k := range kinds {
		qty := firstInt(row, 0, k.column)
		if qty <= 0 {
			continue
		}
		m := domain.Movement{
			Kind:        k.kind,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    qty,
			Notes:       importedNote,
		}
		m.PrepareForStorage()
		movements = append(movements, m)
	}
	return movements
}

// importSales appends the workbook's sales rows to the local log. Display
// rows only carry product names, so lines resolve back to ids through the
// freshly-imported catalog.
func (s *ImportService) importSales(ctx context.Context, rows []ports.Row, products []domain.Product, byName map[string]int) (imported, skipped int, err error) {
	day := s.now()
	for _, row := range rows {
		sale, ok := s.parseSaleRow(row, day, products, byName)
		if !ok {
			skipped++
			continue
		}
		if err := s.store.Sales().Append(ctx, *sale); err != nil {
			return imported, skipped, fmt.Errorf("failed to append imported sale: %w", err)
		}
		imported++
	}
	return imported, skipped, nil
}

// parseSaleRow reconstructs one sale from its display row. Parsing is
// deliberately lenient: a malformed line segment drops only that segment,
// a name absent from the catalog keeps the line under product id "unknown",
// and an unreadable price reads as zero. A row is skipped only when no line
// at all survives.
func (s *ImportService) parseSaleRow(row ports.Row, day time.Time, products []domain.Product, byName map[string]int) (*domain.Sale, bool) {
	var items []domain.SaleItem
	for _, part := range strings.Split(row[domain.ColProducts], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		match := saleLinePattern.FindStringSubmatch(part)
		if match == nil {
			continue
		}
		name := strings.TrimSpace(match[1])
		qty, err := strconv.Atoi(match[2])
		if err != nil || qty <= 0 {
			continue
		}
		item := domain.SaleItem{
			ProductID:   "unknown",
			ProductName: name,
			Quantity:    qty,
		}
		if i, ok := byName[strings.ToLower(name)]; ok {
			item.ProductID = products[i].ID
			item.ProductName = products[i].Name
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, false
	}

	sale := &domain.Sale{
		Items: items,
		Total: decimal.Zero,
		Notes: strings.TrimSpace(row[domain.ColNotes]),
	}

	price := strings.TrimSpace(row[domain.ColPrice])
	if strings.EqualFold(price, domain.DeliveryMarker) {
		sale.IsDelivery = true
	} else {
		sale.Total = decimal.NewFromInt(int64(parsePrice(price)))
		method := parsePaymentMethod(row[domain.ColPaymentMethod])
		sale.PaymentMethod = &method
	}

	if ts, ok := parseSaleTime(row[domain.ColTime], day); ok {
		sale.Timestamp = ts
	}
	sale.PrepareForStorage()
	return sale, true
}

// parsePrice strips everything but digits and parses the remainder, so
// "$1,500" reads as 1500. Unreadable prices read as zero.
func parsePrice(raw string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// parsePaymentMethod resolves the display cell by case-insensitive
// substring, defaulting to cash; exports capitalize and may decorate the
// method text.
func parsePaymentMethod(raw string) domain.PaymentMethod {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, string(domain.PaymentTransfer)):
		return domain.PaymentTransfer
	case strings.Contains(lower, string(domain.PaymentDebit)):
		return domain.PaymentDebit
	}
	return domain.PaymentCash
}

// parseSaleTime reads the sale's clock time onto the given day. Both the
// HH:MM wire format and the older seconds-bearing variant occur in the wild.
func parseSaleTime(raw string, day time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.ParseInLocation(layout, raw, day.Location())
		if err != nil {
			continue
		}
		y, m, d := day.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, day.Location()), true
	}
	return time.Time{}, false
}

// applyShiftState updates the turno singleton for the mode: transfer keeps
// the running window, new_shift re-opens with a fresh timestamp.
func (s *ImportService) applyShiftState(ctx context.Context, mode ports.ImportMode) error {
	now := s.now()
	state, err := s.store.Shift().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read shift state: %w", err)
	}

	state.IsOpen = true
	state.ClosedAt = nil
	if mode == ports.ImportNewShift || state.OpenedAt == nil {
		state.OpenedAt = &now
	}

	if err := s.store.Shift().Set(ctx, state); err != nil {
		return fmt.Errorf("failed to save shift state: %w", err)
	}
	return nil
}

// firstInt resolves the first column in the chain that holds a
// non-negative integer, falling back to def.
func firstInt(row ports.Row, def int, columns ...string) int {
	for _, col := range columns {
		raw, ok := row[col]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			continue
		}
		return n
	}
	return def
}
