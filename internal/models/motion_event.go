package models

import "time"

// Motion event types produced by the alarm classifier.
const (
	EventMotionDetected = "motion_detected"
	EventMotionCleared  = "motion_cleared"
)

// MotionEvent is a classified alarm message from the sensor.
type MotionEvent struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"` // raw alarm text as pushed by the device
	Type      string    `json:"type"`    // motion_detected | motion_cleared
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// MotionReport is a persisted row from the device's direct report endpoint.
// Separate from MotionEvent: reports survive restarts, classified events do not.
type MotionReport struct {
	ID             string    `json:"id"`
	SensorLocation string    `json:"sensor_location"`
	Timestamp      time.Time `json:"timestamp"`
}
