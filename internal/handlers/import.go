// internal/handlers/import.go
package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/mcanales/floreria-be/internal/core/ports"
)

// ImportHandler handles workbook import operations
type ImportHandler struct {
	importer    ports.ImportService
	logger      *slog.Logger
	maxFileSize int64
}

// NewImportHandler creates a new import handler
func NewImportHandler(importer ports.ImportService, logger *slog.Logger, maxFileSizeMB int) *ImportHandler {
	return &ImportHandler{
		importer:    importer,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: int64(maxFileSizeMB) * 1024 * 1024,
	}
}

// ImportExcel handles POST /api/v1/import/excel: parse the uploaded
// workbook and apply it to the catalog in the requested mode
func (h *ImportHandler) ImportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing file in request")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" &&
		contentType != "application/vnd.ms-excel" {
		respondError(w, http.StatusBadRequest, "File must be an Excel workbook (.xlsx)")
		return
	}

	mode := ports.ImportMode(r.FormValue("mode"))
	if mode == "" {
		mode = ports.ImportTransfer
	}
	if !mode.Valid() {
		respondError(w, http.StatusBadRequest, "Mode must be 'transfer' or 'new_shift'")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to read uploaded file",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}
	if int64(len(data)) > h.maxFileSize {
		respondError(w, http.StatusRequestEntityTooLarge, "File exceeds the maximum allowed size")
		return
	}

	summary, err := h.importer.Import(ctx, data, mode)
	if err != nil {
		h.logger.ErrorContext(ctx, "import failed",
			slog.String("file", header.Filename),
			slog.String("mode", string(mode)),
			slog.String("error", err.Error()))
		respondDomainError(w, err, "Import failed")
		return
	}

	h.logger.InfoContext(ctx, "import completed",
		slog.String("file", header.Filename),
		slog.String("mode", string(mode)),
		slog.Int("new_products", summary.NewProducts),
		slog.Int("updated_products", summary.UpdatedProducts),
		slog.Int("imported_sales", summary.ImportedSales))

	respondJSON(w, http.StatusOK, summary)
}
