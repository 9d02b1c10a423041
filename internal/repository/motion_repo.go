package repository

import (
	"context"
	"database/sql"
	"time"

	"motion_dashboard/internal/models"

	"github.com/google/uuid"
)

type MotionSQLite struct {
	db *sql.DB
}

func NewMotionSQLite(db *sql.DB) *MotionSQLite { return &MotionSQLite{db: db} }

// Insert stores a device report. If ID or Timestamp are empty, they're set.
func (r *MotionSQLite) Insert(ctx context.Context, report models.MotionReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.Timestamp.IsZero() {
		report.Timestamp = time.Now().UTC()
	} else {
		report.Timestamp = report.Timestamp.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO motion_events (id, sensor_location, occurred_at)
		VALUES (?, ?, ?)
	`,
		report.ID,
		report.SensorLocation,
		report.Timestamp.Format("2006-01-02 15:04:05"),
	)
	return err
}

// ListRecent returns up to limit reports, newest first.
func (r *MotionSQLite) ListRecent(ctx context.Context, limit int) ([]models.MotionReport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sensor_location, occurred_at
		FROM motion_events
		ORDER BY occurred_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.MotionReport, 0, limit)
	for rows.Next() {
		var report models.MotionReport
		if err := rows.Scan(&report.ID, &report.SensorLocation, &report.Timestamp); err != nil {
			return nil, err
		}
		report.Timestamp = report.Timestamp.UTC()
		out = append(out, report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
