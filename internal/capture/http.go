package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

const defaultLandmarkURL = "http://localhost:8001"

// HTTPDetector reads frames from a landmark extraction service that owns
// the camera. Each GET /landmarks processes the current frame.
type HTTPDetector struct {
	baseURL      string
	pollInterval time.Duration
	client       *http.Client
	polled       bool
}

// NewHTTPDetector creates a detector for the landmark service at baseURL.
func NewHTTPDetector(baseURL string, pollInterval, timeout time.Duration) *HTTPDetector {
	if baseURL == "" {
		baseURL = defaultLandmarkURL
	}
	if pollInterval <= 0 {
		pollInterval = constants.DefaultPollInterval
	}
	return &HTTPDetector{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		pollInterval: pollInterval,
		client:       &http.Client{Timeout: timeout},
	}
}

// NextFrame fetches the landmarks of the next processed frame.
func (d *HTTPDetector) NextFrame(ctx context.Context) (facematch.FeatureSet, error) {
	if d.polled {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d.pollInterval):
		}
	}
	d.polled = true

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/landmarks", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusGone:
		// The service reports its video source is closed.
		return nil, io.EOF
	default:
		return nil, fmt.Errorf("landmark service error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var frame frameResponse
	if err := json.Unmarshal(body, &frame); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return frame.toFeatureSet(), nil
}
