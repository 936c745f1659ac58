// internal/handlers/export.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mcanales/floreria-be/internal/core/ports"
	"github.com/mcanales/floreria-be/internal/workers"
)

// ExportHandler handles report export operations
type ExportHandler struct {
	reports     ports.ReportService
	asynqClient *asynq.Client
	logger      *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(reports ports.ReportService, asynqClient *asynq.Client, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		reports:     reports,
		asynqClient: asynqClient,
		logger:      logger.With(slog.String("handler", "export")),
	}
}

// ExportExcel handles GET /api/v1/export/excel: build the ad hoc report
// over the current window and stream the workbook back
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, err := h.reports.ExportDaily(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to export report",
			slog.String("error", err.Error()))
		respondDomainError(w, err, "Failed to generate export")
		return
	}

	writeWorkbook(w, file)
	h.logger.InfoContext(ctx, "export completed",
		slog.String("file", file.Name),
		slog.Int("bytes", len(file.Data)))
}

// ExportAsync handles POST /api/v1/export/async: queue the export so a
// worker builds and publishes the workbook to the share target
func (h *ExportHandler) ExportAsync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.asynqClient == nil {
		respondError(w, http.StatusServiceUnavailable, "Async export is not configured")
		return
	}

	jobID := uuid.New().String()
	payload, err := json.Marshal(workers.ReportExportPayload{JobID: jobID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to marshal export payload",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to queue export")
		return
	}

	task := asynq.NewTask(workers.TypeReportExport, payload)
	info, err := h.asynqClient.Enqueue(task,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Retention(24*time.Hour))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue export task",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to queue export")
		return
	}

	h.logger.InfoContext(ctx, "export queued",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID))

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Export has been queued; the workbook will be published to the share target",
	})
}
