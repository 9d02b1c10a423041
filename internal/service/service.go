package service

import (
	"context"
	"time"

	"motion_dashboard/internal/logger"
	"motion_dashboard/internal/models"
	"motion_dashboard/internal/repository"
)

// Monitor is the aggregation core: alarm classification, status merging,
// the bounded event list, and subscriber fan-out.
type Monitor interface {
	ProcessAlarm(message string)
	ApplySystemPatch(patch models.SystemPatch)
	Status() models.SystemStatus
	Events() []models.MotionEvent
	Fresh() bool
	SubscribeEvents(fn func(events []models.MotionEvent)) func()
	SubscribeStatus(fn func(status models.SystemStatus)) func()
	RunFreshnessWatch(ctx context.Context, tick time.Duration)
}

// Security exposes the arm/disarm command.
type Security interface {
	SetArmed(ctx context.Context, action string) (models.SystemStatus, error)
}

// Triggers is the motion-session duration tracker.
type Triggers interface {
	ObserveMotion(detected bool)
	Triggers() []models.TriggerEvent
	Stats() models.TriggerStats
	Subscribe(fn func(triggers []models.TriggerEvent, stats models.TriggerStats)) func()
}

// MotionLog exposes the persisted device-report log.
type MotionLog interface {
	Record(ctx context.Context, sensorLocation string) (models.MotionReport, error)
	Recent(ctx context.Context, limit int) ([]models.MotionReport, error)
}

// Notifications exposes outbound alerts and their history.
type Notifications interface {
	Send(ctx context.Context, n models.Notification) (models.Notification, error)
	Recent(ctx context.Context, limit int) ([]models.Notification, error)
}

// SystemPublisher writes the system object back to the realtime channel.
type SystemPublisher interface {
	PublishSystem(status models.SystemStatus) error
}

// Config carries the service-level knobs from the config file.
type Config struct {
	SensorLocation string
	WebhookURL     string
}

// Service aggregates all sub-services behind their interfaces.
type Service struct {
	Monitor
	Security
	Triggers
	MotionLog
	Notifications
}

// NewService wires repositories and the broker publisher into concrete
// services. The monitor's alert sink is the notifier, so armed motion
// detections flow straight into the notification pipeline.
func NewService(repos *repository.Repository, pub SystemPublisher, cfg Config, log *logger.Logger) *Service {
	notifier := NewNotifierService(repos.Notifications, cfg.WebhookURL, log)
	monitor := NewMonitorService(notifier, log)

	return &Service{
		Monitor:       monitor,
		Security:      NewSecurityService(monitor, pub, log),
		Triggers:      NewTrackerService(cfg.SensorLocation, log),
		MotionLog:     NewMotionLogService(repos.Motion),
		Notifications: notifier,
	}
}
