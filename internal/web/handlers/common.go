package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/database"
	"go.uber.org/zap"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// maxBodyBytes caps request bodies; a 68-point face is well under 4 KiB.
const maxBodyBytes = 1 << 20

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

// respondWorkflowError maps a failed workflow to a status code. Persistence
// details are logged, not returned.
func respondWorkflowError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, attendance.ErrEmptyPersonID), errors.Is(err, attendance.ErrPersonIDTooLong):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrPersistence):
		log.Error("storage failure", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		log.Error("workflow failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
