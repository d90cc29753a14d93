package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database/mock"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	store := mock.NewMockFeatureStore()
	ledger := mock.NewMockAttendanceLedger()
	svc := attendance.NewService(store, ledger, facematch.NewComparator(50), attendance.Options{DetectionWindow: time.Second})

	cfg := &config.Config{Web: config.WebConfig{Host: "127.0.0.1", Port: 0, APIKey: apiKey}}
	srv := httptest.NewServer(NewServer(cfg, svc, store, ledger, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, key string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func face(dx float64) facematch.FeatureSet {
	lm := make(facematch.Landmarks, 68)
	for i := 0; i < 68; i++ {
		lm[i] = facematch.Point{X: float64(i)*5 + dx, Y: float64(i) * 3}
	}
	return facematch.FeatureSet{0: lm}
}

func TestServer_EnrollAndMarkAttendance(t *testing.T) {
	srv := newTestServer(t, "")

	enroll := map[string]any{"person_id": "7", "name": "Ann", "gender": "F", "features": face(0)}
	if resp := do(t, http.MethodPost, srv.URL+"/api/v1/persons", "", enroll); resp.StatusCode != http.StatusCreated {
		t.Fatalf("enroll status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	if resp := do(t, http.MethodPost, srv.URL+"/api/v1/persons", "", enroll); resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate enroll status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	mark := map[string]any{"person_id": "7", "features": face(10)}
	if resp := do(t, http.MethodPost, srv.URL+"/api/v1/attendance", "", mark); resp.StatusCode != http.StatusCreated {
		t.Fatalf("mark status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/v1/persons/7/attendance", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history status = %d", resp.StatusCode)
	}
	var history struct {
		Total   int `json:"total"`
		Records []struct {
			PersonID string `json:"person_id"`
		} `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if history.Total != 1 || len(history.Records) != 1 || history.Records[0].PersonID != "7" {
		t.Errorf("unexpected history: %+v", history)
	}

	if resp := do(t, http.MethodGet, srv.URL+"/api/v1/persons/8", "", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown person status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestServer_APIKey(t *testing.T) {
	srv := newTestServer(t, "secret")

	if resp := do(t, http.MethodGet, srv.URL+"/api/v1/health", "", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want %d without key", resp.StatusCode, http.StatusOK)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/api/v1/persons", "", nil); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("persons status = %d, want %d without key", resp.StatusCode, http.StatusUnauthorized)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/api/v1/persons", "secret", nil); resp.StatusCode != http.StatusOK {
		t.Errorf("persons status = %d, want %d with key", resp.StatusCode, http.StatusOK)
	}
}
