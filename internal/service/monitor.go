package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"motion_dashboard/internal/logger"
	"motion_dashboard/internal/models"

	"github.com/google/uuid"
)

// Marker substrings the ESP32 firmware embeds in alarm messages. Matching is
// containment, not equality, so surrounding decoration is permitted.
const (
	motionDetectedMarker = "🚨 Motion detected"
	motionClearedMarker  = "✅ Motion cleared"
)

const (
	// maxMotionEvents bounds the in-memory classified event list.
	maxMotionEvents = 50

	// heartbeatFreshWindow is the staleness threshold for the displayed
	// online flag. The boundary is exactly 120000 ms.
	heartbeatFreshWindow = 120000 * time.Millisecond
)

// AlertSink receives outbound notifications. Delivery is fire-and-forget;
// the sink must never block the caller on network I/O.
type AlertSink interface {
	Notify(n models.Notification)
}

type eventSubscriber struct {
	fn func(events []models.MotionEvent)
}

type statusSubscriber struct {
	fn func(status models.SystemStatus)
}

type MonitorOption func(*MonitorService)

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) MonitorOption {
	return func(s *MonitorService) {
		s.now = now
	}
}

// MonitorService is the aggregation core: it classifies alarm messages,
// merges system pushes into the single status snapshot, keeps the bounded
// newest-first event list, and fans out every change to subscribers.
// Subscribers always receive copies, never internal state.
type MonitorService struct {
	mu         sync.Mutex
	status     models.SystemStatus
	events     []models.MotionEvent
	eventSubs  []*eventSubscriber
	statusSubs []*statusSubscriber

	alerts AlertSink
	now    func() time.Time
	log    *logger.Logger
}

func NewMonitorService(alerts AlertSink, log *logger.Logger, opts ...MonitorOption) *MonitorService {
	s := &MonitorService{
		status: models.SystemStatus{SystemArmed: true},
		alerts: alerts,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessAlarm classifies a raw alarm message. Every alarm, recognized or
// not, counts as a liveness signal; only recognized markers produce events.
func (s *MonitorService) ProcessAlarm(message string) {
	now := s.now()

	s.mu.Lock()
	s.status.LastHeartbeat = now
	s.status.IsOnline = true

	var eventType string
	switch {
	case strings.Contains(message, motionDetectedMarker):
		eventType = models.EventMotionDetected
	case strings.Contains(message, motionClearedMarker):
		eventType = models.EventMotionCleared
	default:
		s.mu.Unlock()
		s.notifyStatusSubs()
		return
	}

	event := models.MotionEvent{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      eventType,
		Timestamp: now,
		CreatedAt: now,
	}
	s.events = append([]models.MotionEvent{event}, s.events...)
	if len(s.events) > maxMotionEvents {
		s.events = s.events[:maxMotionEvents]
	}

	detected := eventType == models.EventMotionDetected
	s.status.MotionDetected = detected
	armed := s.status.SystemArmed
	s.mu.Unlock()

	if detected && armed && s.alerts != nil {
		s.alerts.Notify(models.Notification{
			Type:      models.EventMotionDetected,
			Message:   "🚨 Security Alert: " + message,
			Priority:  models.PriorityHigh,
			Timestamp: now,
		})
	}

	s.notifyEventSubs()
	s.notifyStatusSubs()
}

// ApplySystemPatch merges the present fields of a system push over the
// snapshot. Receiving any push, whatever its content, refreshes the
// heartbeat.
func (s *MonitorService) ApplySystemPatch(patch models.SystemPatch) {
	now := s.now()

	s.mu.Lock()
	if patch.IsOnline != nil {
		s.status.IsOnline = *patch.IsOnline
	}
	if patch.MotionDetected != nil {
		s.status.MotionDetected = *patch.MotionDetected
	}
	if patch.SystemArmed != nil {
		s.status.SystemArmed = *patch.SystemArmed
	}
	if patch.ESP32IP != nil {
		s.status.ESP32IP = *patch.ESP32IP
	}
	if patch.SensorLocation != nil {
		s.status.SensorLocation = *patch.SensorLocation
	}
	if patch.LastAction != nil {
		s.status.LastAction = *patch.LastAction
	}
	if patch.ActionTimestamp != nil {
		s.status.ActionTimestamp = *patch.ActionTimestamp
	}
	s.status.LastHeartbeat = now
	s.mu.Unlock()

	s.notifyStatusSubs()
}

// Status returns a copy of the current snapshot.
func (s *MonitorService) Status() models.SystemStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Events returns a copy of the classified event list, newest first.
func (s *MonitorService) Events() []models.MotionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.MotionEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Fresh reports whether the last heartbeat is within the freshness window.
// This is the sole source of truth for the displayed online state,
// independent of whatever the device itself last reported.
func (s *MonitorService) Fresh() bool {
	s.mu.Lock()
	hb := s.status.LastHeartbeat
	s.mu.Unlock()

	if hb.IsZero() {
		return false
	}
	return s.now().Sub(hb) < heartbeatFreshWindow
}

// SubscribeEvents registers a callback for event list changes. The callback
// is invoked immediately with the current list, so late subscribers are
// never left blank. The returned func unregisters the callback.
func (s *MonitorService) SubscribeEvents(fn func(events []models.MotionEvent)) func() {
	sub := &eventSubscriber{fn: fn}

	s.mu.Lock()
	s.eventSubs = append(s.eventSubs, sub)
	s.mu.Unlock()

	fn(s.Events())

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, cur := range s.eventSubs {
			if cur == sub {
				s.eventSubs = append(s.eventSubs[:i], s.eventSubs[i+1:]...)
				return
			}
		}
	}
}

// SubscribeStatus registers a callback for status changes, with the same
// replay-on-subscribe behavior as SubscribeEvents.
func (s *MonitorService) SubscribeStatus(fn func(status models.SystemStatus)) func() {
	sub := &statusSubscriber{fn: fn}

	s.mu.Lock()
	s.statusSubs = append(s.statusSubs, sub)
	s.mu.Unlock()

	fn(s.Status())

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, cur := range s.statusSubs {
			if cur == sub {
				s.statusSubs = append(s.statusSubs[:i], s.statusSubs[i+1:]...)
				return
			}
		}
	}
}

// RunFreshnessWatch re-notifies status subscribers whenever the derived
// online state flips, so streaming clients observe staleness without the
// device pushing anything. Runs until ctx is canceled.
func (s *MonitorService) RunFreshnessWatch(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	last := s.Fresh()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			fresh := s.Fresh()
			if fresh == last {
				continue
			}
			last = fresh
			if s.log != nil {
				s.log.Infow("device freshness changed", "online", fresh)
			}
			s.notifyStatusSubs()
		}
	}
}

// notifyEventSubs delivers a fresh copy to each subscriber, in registration
// order. The subscriber list is copied first so unsubscribing mid-pass does
// not disturb the pass.
func (s *MonitorService) notifyEventSubs() {
	s.mu.Lock()
	subs := make([]*eventSubscriber, len(s.eventSubs))
	copy(subs, s.eventSubs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(s.Events())
	}
}

func (s *MonitorService) notifyStatusSubs() {
	s.mu.Lock()
	subs := make([]*statusSubscriber, len(s.statusSubs))
	copy(subs, s.statusSubs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(s.Status())
	}
}
