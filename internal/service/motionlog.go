package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"motion_dashboard/internal/models"
	"motion_dashboard/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultReportLimit = 20
	maxReportLimit     = 100
)

var errMissingSensorLocation = errors.New("sensor_location is required")

// MotionLogService is the thin list/insert layer over persisted motion
// reports from the device's direct report endpoint.
type MotionLogService struct {
	repo repository.MotionRepo
}

func NewMotionLogService(repo repository.MotionRepo) *MotionLogService {
	return &MotionLogService{repo: repo}
}

// Record stores a device report with a server-assigned ID and timestamp.
func (s *MotionLogService) Record(ctx context.Context, sensorLocation string) (models.MotionReport, error) {
	sensorLocation = strings.TrimSpace(sensorLocation)
	if sensorLocation == "" {
		return models.MotionReport{}, errMissingSensorLocation
	}

	report := models.MotionReport{
		ID:             uuid.NewString(),
		SensorLocation: sensorLocation,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, report); err != nil {
		return models.MotionReport{}, err
	}
	return report, nil
}

// Recent returns the most recent reports, newest first. A non-positive limit
// falls back to the default of 20; the cap keeps a single request bounded.
func (s *MotionLogService) Recent(ctx context.Context, limit int) ([]models.MotionReport, error) {
	if limit <= 0 {
		limit = defaultReportLimit
	}
	if limit > maxReportLimit {
		limit = maxReportLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
