// internal/core/services/shift.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcanales/floreria-be/internal/core/domain"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// ShiftService owns the turno lifecycle. Open snapshots the catalog's live
// stock as the opening baseline; Close is gated on producing the cierre
// workbook, so a shift never closes without its report.
type ShiftService struct {
	store   ports.Store
	reports *ReportService
	logger  *slog.Logger
	now     func() time.Time
}

// Statically assert that *ShiftService implements the ShiftService interface.
var _ ports.ShiftService = (*ShiftService)(nil)

// NewShiftService creates a new shift service
func NewShiftService(store ports.Store, reports *ReportService, logger *slog.Logger) *ShiftService {
	return &ShiftService{
		store:   store,
		reports: reports,
		logger:  logger.With(slog.String("service", "shift")),
		now:     time.Now,
	}
}

// State returns the current turno state
func (s *ShiftService) State(ctx context.Context) (domain.ShiftState, error) {
	state, err := s.store.Shift().Get(ctx)
	if err != nil {
		return domain.ShiftState{}, fmt.Errorf("failed to read shift state: %w", err)
	}
	return state, nil
}

// Open starts a shift: every product's live stock becomes its opening
// snapshot and the opening timestamp is recorded. Opening over an already
// open shift re-baselines the snapshot rather than failing.
func (s *ShiftService) Open(ctx context.Context) (domain.ShiftState, error) {
	products, err := s.store.Products().List(ctx)
	if err != nil {
		return domain.ShiftState{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(products) == 0 {
		return domain.ShiftState{}, domain.ErrEmptyCatalog
	}

	for i := range products {
		opening := products[i].Stock
		products[i].OpeningStock = &opening
	}
	if err := s.store.Products().ReplaceAll(ctx, products); err != nil {
		return domain.ShiftState{}, fmt.Errorf("failed to snapshot opening stock: %w", err)
	}

	openedAt := s.now()
	state := domain.ShiftState{
		IsOpen:   true,
		OpenedAt: &openedAt,
	}
	if err := s.store.Shift().Set(ctx, state); err != nil {
		return domain.ShiftState{}, fmt.Errorf("failed to save shift state: %w", err)
	}

	s.logger.InfoContext(ctx, "shift opened",
		slog.Time("opened_at", openedAt),
		slog.Int("products_snapshotted", len(products)))
	return state, nil
}

// Close builds and encodes the cierre report, then marks the shift closed.
// The workbook gates the state change: if the report cannot be built or
// encoded the shift stays open.
func (s *ShiftService) Close(ctx context.Context) (*ports.ExportFile, error) {
	now := s.now()
	report, err := s.reports.BuildShiftReport(ctx, now)
	if err != nil {
		return nil, err
	}
	file, err := s.reports.Encode(ctx, report)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := domain.ShiftState{
		IsOpen:   false,
		OpenedAt: &report.From,
		ClosedAt: &now,
	}
	if err := s.store.Shift().Set(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save shift state: %w", err)
	}

	s.logger.InfoContext(ctx, "shift closed",
		slog.Time("closed_at", now),
		slog.String("file", file.Name))
	return file, nil
}
