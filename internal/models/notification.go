package models

import "time"

// Notification priorities.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Notification is an outbound alert: logged, persisted, and forwarded to the
// configured webhook. Delivery is fire-and-forget.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	Timestamp time.Time `json:"timestamp"`
	Sent      bool      `json:"sent"`
}
