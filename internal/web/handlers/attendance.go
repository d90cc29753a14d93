package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/capture"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"go.uber.org/zap"
)

// AttendanceHandler handles verification and attendance history
type AttendanceHandler struct {
	service *attendance.Service
	ledger  database.AttendanceReader
	log     *zap.Logger
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(service *attendance.Service, ledger database.AttendanceReader, log *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{service: service, ledger: ledger, log: log}
}

// MarkRequest is the body of POST /attendance
type MarkRequest struct {
	PersonID string               `json:"person_id"`
	Features facematch.FeatureSet `json:"features"`
}

// RecordResponse represents one attendance record
type RecordResponse struct {
	PersonID string    `json:"person_id"`
	Time     time.Time `json:"time"`
}

// MarkResponse is returned when attendance was marked
type MarkResponse struct {
	Status     string    `json:"status"`
	PersonID   string    `json:"person_id"`
	WorkflowID string    `json:"workflow_id"`
	Time       time.Time `json:"time"`
}

// HistoryResponse lists the newest records of a person
type HistoryResponse struct {
	PersonID string           `json:"person_id"`
	Total    int              `json:"total"`
	Records  []RecordResponse `json:"records"`
}

// Mark verifies the submitted face against the stored identity and records attendance
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	var req MarkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	out, err := h.service.Verify(r.Context(), capture.NewStaticDetector(req.Features), req.PersonID)
	if err != nil {
		respondWorkflowError(w, h.log, err)
		return
	}

	switch out.Reason {
	case attendance.ReasonAttendanceMarked:
		respondJSON(w, http.StatusCreated, MarkResponse{
			Status:     "marked",
			PersonID:   out.PersonID,
			WorkflowID: out.WorkflowID,
			Time:       out.Record.Time,
		})
	case attendance.ReasonPersonNotFound:
		respondError(w, http.StatusNotFound, out.Message())
	default:
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  out.Message(),
			"reason": string(out.Reason),
		})
	}
}

// History returns attendance records of a person, newest first
func (h *AttendanceHandler) History(w http.ResponseWriter, r *http.Request) {
	personID := chi.URLParam(r, "id")

	limit := constants.DefaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > constants.MaxHistoryLimit {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := h.ledger.History(r.Context(), personID, limit)
	if err != nil {
		respondWorkflowError(w, h.log, err)
		return
	}
	total, err := h.ledger.CountForPerson(r.Context(), personID)
	if err != nil {
		respondWorkflowError(w, h.log, err)
		return
	}

	resp := HistoryResponse{PersonID: personID, Total: total, Records: make([]RecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, RecordResponse{PersonID: rec.PersonID, Time: rec.Time})
	}
	respondJSON(w, http.StatusOK, resp)
}
