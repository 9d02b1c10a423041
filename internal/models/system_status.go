package models

import "time"

// SystemStatus is the current snapshot of the sensor system.
// There is exactly one per running process; every update is a merge,
// never a full replacement.
type SystemStatus struct {
	IsOnline        bool      `json:"isOnline"`
	LastHeartbeat   time.Time `json:"lastHeartbeat"`
	MotionDetected  bool      `json:"motionDetected"`
	SystemArmed     bool      `json:"systemArmed"`
	ESP32IP         string    `json:"esp32IP,omitempty"`
	SensorLocation  string    `json:"sensor_location,omitempty"`
	LastAction      string    `json:"lastAction,omitempty"` // arm | disarm
	ActionTimestamp time.Time `json:"actionTimestamp,omitempty"`
}

// SystemPatch is a partial status update from the system channel.
// Nil fields are absent from the push and must preserve the prior value.
type SystemPatch struct {
	IsOnline        *bool      `json:"isOnline,omitempty"`
	MotionDetected  *bool      `json:"motionDetected,omitempty"`
	SystemArmed     *bool      `json:"systemArmed,omitempty"`
	ESP32IP         *string    `json:"esp32IP,omitempty"`
	SensorLocation  *string    `json:"sensor_location,omitempty"`
	LastAction      *string    `json:"lastAction,omitempty"`
	ActionTimestamp *time.Time `json:"actionTimestamp,omitempty"`
}
