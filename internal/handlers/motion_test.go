package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"motion_dashboard/internal/models"
	"motion_dashboard/internal/service"
)

func TestGetMotionReports(t *testing.T) {
	ml := &mockMotionLog{listResp: []models.MotionReport{
		{ID: "b", SensorLocation: "Porch"},
		{ID: "a", SensorLocation: "Living Room"},
	}}
	r := newTestRouter(&service.Service{MotionLog: ml})

	// Explicit limit is passed through to the service.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/motion?limit=5", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if ml.lastLimit != 5 {
		t.Errorf("limit: want 5, got %d", ml.lastLimit)
	}

	var resp struct {
		Count  int                   `json:"count"`
		Events []models.MotionReport `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 || resp.Events[0].ID != "b" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	// Missing limit defers to the service default.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/motion", nil)
	r.ServeHTTP(w, req)
	if ml.lastLimit != 0 {
		t.Errorf("missing limit must pass 0 for the service default, got %d", ml.lastLimit)
	}
}

func TestGetMotionReports_ServiceError(t *testing.T) {
	ml := &mockMotionLog{listErr: errors.New("db down")}
	r := newTestRouter(&service.Service{MotionLog: ml})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/motion", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestPostMotionReport(t *testing.T) {
	report := models.MotionReport{
		ID:             "r1",
		SensorLocation: "Living Room",
		Timestamp:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"missing_location", `{}`, nil, http.StatusBadRequest},
		{"service_error", `{"sensor_location":"Living Room"}`, errors.New("db down"), http.StatusInternalServerError},
		{"created", `{"sensor_location":"Living Room"}`, nil, http.StatusCreated},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ml := &mockMotionLog{recordResp: report, recordErr: tc.err}
			r := newTestRouter(&service.Service{MotionLog: ml})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/motion", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantCode == http.StatusCreated {
				if ml.lastLocation != "Living Room" {
					t.Errorf("location passed: got %q", ml.lastLocation)
				}
				var resp struct {
					Status string              `json:"status"`
					Event  models.MotionReport `json:"event"`
				}
				_ = json.Unmarshal(w.Body.Bytes(), &resp)
				if resp.Status != "recorded" || resp.Event.ID != "r1" {
					t.Errorf("unexpected body: %s", w.Body.String())
				}
			}
		})
	}
}
