// internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcanales/floreria-be/internal/core/domain"
)

// isValidationError recognizes the messages the domain layer produces for
// bad input, so they map to 400 instead of 500
func isValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "validation failed") ||
		strings.Contains(msg, "is required") ||
		strings.Contains(msg, "must be") ||
		strings.Contains(msg, "cannot be negative") ||
		strings.Contains(msg, "unknown")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps the domain failure modes onto HTTP statuses;
// anything unrecognized is a 500 with a generic message.
func respondDomainError(w http.ResponseWriter, err error, fallback string) {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":      insufficient.Error(),
			"producto":   insufficient.ProductName,
			"disponible": insufficient.Available,
			"solicitado": insufficient.Requested,
		})
	case errors.Is(err, domain.ErrProductNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmptyCatalog):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoData):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrCodec):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrShareUnavailable):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
