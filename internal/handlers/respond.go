package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"checkpoint/internal/validate"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("err", err))
	}
}

type errorResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Errors  []validate.FieldError `json:"errors,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string, errs []validate.FieldError) {
	writeJSON(w, status, errorResponse{Success: false, Message: message, Errors: errs})
}

func writeValidationErrors(w http.ResponseWriter, errs []validate.FieldError) {
	writeError(w, http.StatusBadRequest, "Validation failed", errs)
}

// writeServerError hides the cause from the client; callers log it.
func writeServerError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "Server error", nil)
}
