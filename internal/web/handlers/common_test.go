package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/database"
	"go.uber.org/zap"
)

func TestRespondJSON_SetsContentTypeAndStatus(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusCreated, map[string]string{"status": "ok"})

	if recorder.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got '%s'", ct)
	}
}

func TestRespondJSON_NilData(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusOK, nil)

	if recorder.Body.Len() != 0 {
		t.Errorf("expected empty body for nil data, got '%s'", recorder.Body.String())
	}
}

func TestRespondError_ContainsErrorKey(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondError(recorder, http.StatusBadRequest, "something went wrong")

	var result map[string]string
	decodeBody(t, recorder, &result)
	if result["error"] != "something went wrong" {
		t.Errorf("expected error 'something went wrong', got '%s'", result["error"])
	}
}

func TestRespondWorkflowError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantLeak   string
	}{
		{"EmptyPersonID", attendance.ErrEmptyPersonID, http.StatusBadRequest, ""},
		{"PersonIDTooLong", attendance.ErrPersonIDTooLong, http.StatusBadRequest, ""},
		{"Persistence", database.PersistenceError("lookup person 7", errors.New("dial tcp 10.0.0.5:5432")), http.StatusServiceUnavailable, "10.0.0.5"},
		{"Other", errors.New("camera exploded"), http.StatusInternalServerError, "camera"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondWorkflowError(recorder, zap.NewNop(), tc.err)

			if recorder.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, recorder.Code)
			}
			if tc.wantLeak != "" && strings.Contains(recorder.Body.String(), tc.wantLeak) {
				t.Errorf("response leaks internal detail: %s", recorder.Body.String())
			}
		})
	}
}

func TestHealthCheck_ReturnsStatusOk(t *testing.T) {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)

	HealthCheck(recorder, req)

	var result map[string]string
	decodeBody(t, recorder, &result)
	if recorder.Code != http.StatusOK || result["status"] != "ok" {
		t.Errorf("unexpected health response %d %v", recorder.Code, result)
	}
}
