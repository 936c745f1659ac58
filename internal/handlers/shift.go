// internal/handlers/shift.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mcanales/floreria-be/internal/core/ports"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ShiftHandler handles turno lifecycle HTTP requests
type ShiftHandler struct {
	service ports.ShiftService
	logger  *slog.Logger
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(service ports.ShiftService, logger *slog.Logger) *ShiftHandler {
	return &ShiftHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "shift")),
	}
}

// State handles GET /api/v1/shift
func (h *ShiftHandler) State(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := h.service.State(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read shift state",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to read shift state")
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// Open handles POST /api/v1/shift/open
func (h *ShiftHandler) Open(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := h.service.Open(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to open shift",
			slog.String("error", err.Error()))
		respondDomainError(w, err, "Failed to open shift")
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// Close handles POST /api/v1/shift/close. On success the response body is
// the cierre workbook itself; the shift is only marked closed once that
// file exists.
func (h *ShiftHandler) Close(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	file, err := h.service.Close(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to close shift",
			slog.String("error", err.Error()))
		respondDomainError(w, err, "Failed to close shift")
		return
	}

	writeWorkbook(w, file)
	h.logger.InfoContext(ctx, "shift close workbook sent",
		slog.String("file", file.Name))
}

// writeWorkbook streams an export file as an attachment
func writeWorkbook(w http.ResponseWriter, file *ports.ExportFile) {
	w.Header().Set("Content-Type", workbookContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Write(file.Data)
}
