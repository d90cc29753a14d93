package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"go.uber.org/zap"
)

// testEnv bundles a service over in-memory storage for handler tests
type testEnv struct {
	store  *mock.MockFeatureStore
	ledger *mock.MockAttendanceLedger
	svc    *attendance.Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		store:  mock.NewMockFeatureStore(),
		ledger: mock.NewMockAttendanceLedger(),
	}
	env.ledger.Clock = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	env.svc = attendance.NewService(env.store, env.ledger, facematch.NewComparator(50), attendance.Options{
		DetectionWindow: time.Second,
		NewWorkflowID:   func() string { return "wf-test" },
	})
	return env
}

func (e *testEnv) persons() *PersonsHandler {
	return NewPersonsHandler(e.svc, e.store, zap.NewNop())
}

func (e *testEnv) attendance() *AttendanceHandler {
	return NewAttendanceHandler(e.svc, e.ledger, zap.NewNop())
}

// jsonRequest creates a request with a JSON encoded body
func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody unmarshals the recorded response body into v
func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to unmarshal response: %v (body %q)", err, recorder.Body.String())
	}
}

// testFace builds a full face offset by (dx, dy)
func testFace(dx, dy float64) facematch.Landmarks {
	lm := make(facematch.Landmarks, constants.LandmarkCount)
	for i := 0; i < constants.LandmarkCount; i++ {
		lm[i] = facematch.Point{X: 50 + float64(i)*4 + dx, Y: 80 + float64(i) + dy}
	}
	return lm
}
