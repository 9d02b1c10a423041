package repository

import (
	"context"
	"database/sql"
	"time"

	"motion_dashboard/internal/models"

	"github.com/google/uuid"
)

type NotificationSQLite struct {
	db *sql.DB
}

func NewNotificationSQLite(db *sql.DB) *NotificationSQLite {
	return &NotificationSQLite{db: db}
}

// Insert stores a notification. If ID or Timestamp are empty, they're set.
func (r *NotificationSQLite) Insert(ctx context.Context, n models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	} else {
		n.Timestamp = n.Timestamp.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, type, message, priority, occurred_at, sent)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		n.ID,
		n.Type,
		n.Message,
		n.Priority,
		n.Timestamp.Format("2006-01-02 15:04:05"),
		n.Sent,
	)
	return err
}

// ListRecent returns up to limit notifications, newest first.
func (r *NotificationSQLite) ListRecent(ctx context.Context, limit int) ([]models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, message, priority, occurred_at, sent
		FROM notifications
		ORDER BY occurred_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Notification, 0, limit)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Type, &n.Message, &n.Priority, &n.Timestamp, &n.Sent); err != nil {
			return nil, err
		}
		n.Timestamp = n.Timestamp.UTC()
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
