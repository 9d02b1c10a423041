package models

import "time"

// Trigger event types and lifecycle states.
const (
	TriggerMotionStart = "motion_start"
	TriggerMotionEnd   = "motion_end"

	TriggerActive   = "active"
	TriggerResolved = "resolved"
)

// TriggerEvent is one observation in a motion session: a start, or the end
// that resolves it. Duration is set only once the session is resolved.
type TriggerEvent struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Type           string    `json:"type"`               // motion_start | motion_end
	Duration       *int      `json:"duration,omitempty"` // seconds
	SensorLocation string    `json:"sensor_location"`
	Status         string    `json:"status"` // active | resolved
}

// TriggerStats is recomputed over the full trigger history after every change.
type TriggerStats struct {
	TotalTriggers   int       `json:"totalTriggers"`
	TodayTriggers   int       `json:"todayTriggers"`
	AverageDuration float64   `json:"averageDuration"` // seconds, 0 if none resolved
	LongestDuration int       `json:"longestDuration"` // seconds, 0 if none resolved
	CurrentStatus   string    `json:"currentStatus"`   // active | idle
	LastTriggerTime time.Time `json:"lastTriggerTime,omitempty"`
}
