// internal/workers/report_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/mcanales/floreria-be/internal/adapters/storage"
	"github.com/mcanales/floreria-be/internal/core/ports"
)

// TypeReportExport is the task type for background report exports
const TypeReportExport = "report:export"

// ReportExportPayload is the payload of a queued export task
type ReportExportPayload struct {
	JobID string `json:"job_id"`
}

// ReportProcessor builds reconciliation workbooks in the background and
// publishes them to the share target
type ReportProcessor struct {
	reports   ports.ReportService
	publisher storage.ReportPublisher
	logger    *slog.Logger
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(reports ports.ReportService, publisher storage.ReportPublisher, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		reports:   reports,
		publisher: publisher,
		logger:    logger.With(slog.String("processor", "report")),
	}
}

// ProcessReportExport handles one queued export: build the current report,
// encode it and publish the workbook. Asynq retries on any returned error,
// so transient store or upload failures self-heal.
func (p *ReportProcessor) ProcessReportExport(ctx context.Context, t *asynq.Task) error {
	var payload ReportExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "processing report export",
		slog.String("job_id", payload.JobID))

	file, err := p.reports.ExportDaily(ctx)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	url, err := p.publisher.Publish(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}

	p.logger.InfoContext(ctx, "report export completed",
		slog.String("job_id", payload.JobID),
		slog.String("file", file.Name),
		slog.Int("bytes", len(file.Data)),
		slog.String("url", url))

	return nil
}
