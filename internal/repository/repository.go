package repository

import (
	"context"
	"database/sql"

	"motion_dashboard/internal/models"
	"motion_dashboard/internal/repository/db"
)

// InitDB re-exports the sqlite bootstrap for the composition root.
var InitDB = db.InitDB

type MotionRepo interface {
	Insert(ctx context.Context, report models.MotionReport) error
	ListRecent(ctx context.Context, limit int) ([]models.MotionReport, error)
}

type NotificationRepo interface {
	Insert(ctx context.Context, n models.Notification) error
	ListRecent(ctx context.Context, limit int) ([]models.Notification, error)
}

type Repository struct {
	Motion        MotionRepo
	Notifications NotificationRepo
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{
		Motion:        NewMotionSQLite(conn),
		Notifications: NewNotificationSQLite(conn),
	}
}
