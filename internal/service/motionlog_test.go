package service

import (
	"context"
	"testing"
	"time"

	"motion_dashboard/internal/models"
)

type motionRepoStub struct {
	inserted  []models.MotionReport
	listResp  []models.MotionReport
	lastLimit int
}

func (r *motionRepoStub) Insert(ctx context.Context, report models.MotionReport) error {
	r.inserted = append(r.inserted, report)
	return nil
}

func (r *motionRepoStub) ListRecent(ctx context.Context, limit int) ([]models.MotionReport, error) {
	r.lastLimit = limit
	return r.listResp, nil
}

func TestMotionLogRecord(t *testing.T) {
	t.Parallel()

	repo := &motionRepoStub{}
	svc := NewMotionLogService(repo)

	got, err := svc.Record(context.Background(), "  Living Room  ")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.SensorLocation != "Living Room" {
		t.Errorf("location must be trimmed, got %q", got.SensorLocation)
	}
	if got.ID == "" || got.Timestamp.IsZero() {
		t.Errorf("ID and timestamp must be assigned: %+v", got)
	}
	if got.Timestamp.Location() != time.UTC {
		t.Errorf("timestamp must be UTC, got %v", got.Timestamp.Location())
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("want 1 insert, got %d", len(repo.inserted))
	}

	if _, err := svc.Record(context.Background(), "   "); err == nil {
		t.Fatalf("blank sensor_location must be rejected")
	}
}

func TestMotionLogRecent_Limits(t *testing.T) {
	t.Parallel()

	repo := &motionRepoStub{}
	svc := NewMotionLogService(repo)

	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"default_on_zero", 0, defaultReportLimit},
		{"default_on_negative", -5, defaultReportLimit},
		{"explicit", 7, 7},
		{"capped", 1000, maxReportLimit},
	}
	for _, tc := range cases {
		if _, err := svc.Recent(context.Background(), tc.limit); err != nil {
			t.Fatalf("%s: Recent: %v", tc.name, err)
		}
		if repo.lastLimit != tc.want {
			t.Errorf("%s: limit passed to repo: want %d, got %d", tc.name, tc.want, repo.lastLimit)
		}
	}
}
