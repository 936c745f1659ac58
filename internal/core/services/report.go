// internal/core/services/report.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// ReportService assembles the reconciliation report for a window and turns
// it into an export file through the spreadsheet codec.
type ReportService struct {
	store  ports.Store
	codec  ports.ReportCodec
	logger *slog.Logger
	now    func() time.Time
}

// Statically assert that *ReportService implements the ReportService interface.
var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new report service
func NewReportService(store ports.Store, codec ports.ReportCodec, logger *slog.Logger) *ReportService {
	return &ReportService{
		store:  store,
		codec:  codec,
		logger: logger.With(slog.String("service", "report")),
		now:    time.Now,
	}
}

// BuildShiftReport builds the cierre-kind report over the current shift's
// window [opening, now). Used by the shift close.
func (s *ReportService) BuildShiftReport(ctx context.Context, now time.Time) (*domain.Report, error) {
	return s.build(ctx, domain.ReportShiftClose, now)
}

// BuildDailyReport builds an ad hoc report over the same window without
// touching shift state
func (s *ReportService) BuildDailyReport(ctx context.Context, now time.Time) (*domain.Report, error) {
	return s.build(ctx, domain.ReportAdHoc, now)
}

// ExportDaily builds and encodes the ad hoc report as a downloadable
// workbook. An empty window fails with ErrNoData before anything is encoded.
func (s *ReportService) ExportDaily(ctx context.Context) (*ports.ExportFile, error) {
	report, err := s.BuildDailyReport(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return s.Encode(ctx, report)
}

// Encode turns a built report into the export workbook
func (s *ReportService) Encode(ctx context.Context, report *domain.Report) (*ports.ExportFile, error) {
	if report.Empty() {
		return nil, domain.ErrNoData
	}

	data, err := s.codec.Encode(ports.ReportSheets(report))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCodec, err)
	}

	file := &ports.ExportFile{
		Name: report.FileName(),
		Data: data,
	}
	s.logger.InfoContext(ctx, "report encoded",
		slog.String("file", file.Name),
		slog.Int("bytes", len(file.Data)),
		slog.Int("inventory_rows", len(report.Inventory)),
		slog.Int("sale_rows", len(report.Sales)))
	return file, nil
}

// build assembles the per-product ledger and the per-sale rows for the
// window [WindowStart, now). Closing is the live stock, not a recomputation,
// so out-of-band stock edits surface as an unbalanced row instead of being
// silently absorbed.
func (s *ReportService) build(ctx context.Context, kind domain.ReportKind, now time.Time) (*domain.Report, error) {
	state, err := s.store.Shift().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read shift state: %w", err)
	}
	from := state.WindowStart(now)

	products, err := s.store.Products().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	movements, err := s.store.Movements().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	sales, err := s.store.Sales().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}

	report := &domain.Report{
		Kind: kind,
		From: from,
		To:   now,
	}

	for _, p := range products {
		row := domain.InventoryRow{
			ProductName: p.Name,
			Opening:     p.OpeningOrCurrent(),
			Closing:     p.Stock,
		}
		for _, m := range movements {
			if m.ProductID != p.ID || !m.InWindow(from, now) {
				continue
			}
			switch m.Kind {
			case domain.MovementRestock:
				row.Restocked += m.Quantity
			case domain.MovementBouquetUse:
				row.BouquetUse += m.Quantity
			case domain.MovementLoss:
				row.Lost += m.Quantity
			}
		}
		for _, sale := range sales {
			if !sale.Timestamp.Before(from) && sale.Timestamp.Before(now) {
				row.Sold += sale.QuantityOf(p.ID)
			}
		}
		report.Inventory = append(report.Inventory, row)
	}

	for _, sale := range sales {
		if sale.Timestamp.Before(from) || !sale.Timestamp.Before(now) {
			continue
		}
		report.Sales = append(report.Sales, domain.SaleRow{
			Time:          sale.Timestamp.Format("15:04"),
			Products:      domain.FormatSaleProducts(sale.Items),
			Price:         domain.FormatSalePrice(&sale),
			PaymentMethod: domain.FormatSalePayment(&sale),
			Notes:         sale.Notes,
		})
	}

	return report, nil
}
