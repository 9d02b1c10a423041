package service

import (
	"math"
	"sync"
	"time"

	"motion_dashboard/internal/logger"
	"motion_dashboard/internal/models"

	"github.com/google/uuid"
)

const defaultSensorLocation = "ESP32-CAM Area"

// Tracker status values.
const (
	trackerIdle   = "idle"
	trackerActive = "active"
)

type triggerSubscriber struct {
	fn func(triggers []models.TriggerEvent, stats models.TriggerStats)
}

type TrackerOption func(*TrackerService)

// WithTrackerClock overrides the wall clock, for deterministic tests.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(s *TrackerService) {
		s.now = now
	}
}

// TrackerService pairs motion-start observations with the next motion-end to
// compute session durations. It is a two-state machine keyed on a single open
// start timestamp: at most one session is open at a time, and only an actual
// flag change causes a transition.
type TrackerService struct {
	mu       sync.Mutex
	triggers []models.TriggerEvent // newest first
	stats    models.TriggerStats
	open     time.Time // zero when idle
	location string
	subs     []*triggerSubscriber

	now func() time.Time
	log *logger.Logger
}

func NewTrackerService(location string, log *logger.Logger, opts ...TrackerOption) *TrackerService {
	if location == "" {
		location = defaultSensorLocation
	}
	s := &TrackerService{
		stats:    models.TriggerStats{CurrentStatus: trackerIdle},
		location: location,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ObserveMotion feeds the tracker one observation of the aggregated motion
// flag. Repeating the current state is a no-op; this is what keeps repeated
// identical pushes from flooding the history with duplicates.
func (s *TrackerService) ObserveMotion(detected bool) {
	now := s.now()

	s.mu.Lock()
	switch {
	case detected && s.open.IsZero():
		s.open = now
		s.triggers = append([]models.TriggerEvent{{
			ID:             uuid.NewString(),
			Timestamp:      now,
			Type:           models.TriggerMotionStart,
			SensorLocation: s.location,
			Status:         models.TriggerActive,
		}}, s.triggers...)
		s.stats.CurrentStatus = trackerActive
		s.stats.LastTriggerTime = now

	case !detected && !s.open.IsZero():
		duration := int(math.Round(now.Sub(s.open).Seconds()))
		if duration < 0 {
			duration = 0
		}
		s.triggers = append([]models.TriggerEvent{{
			ID:             uuid.NewString(),
			Timestamp:      now,
			Type:           models.TriggerMotionEnd,
			Duration:       &duration,
			SensorLocation: s.location,
			Status:         models.TriggerResolved,
		}}, s.triggers...)
		s.resolveOpenStart(duration)
		s.open = time.Time{}
		s.stats.CurrentStatus = trackerIdle
		if s.log != nil {
			s.log.Infow("motion session resolved", "duration_s", duration, "location", s.location)
		}

	default:
		// Already in the observed state.
		s.mu.Unlock()
		return
	}

	s.recomputeStats(now)
	s.mu.Unlock()

	s.notifySubs()
}

// resolveOpenStart mutates the most recent unresolved motion_start in place
// to carry the session duration. Caller holds s.mu.
func (s *TrackerService) resolveOpenStart(duration int) {
	for i := range s.triggers {
		t := &s.triggers[i]
		if t.Type == models.TriggerMotionStart && t.Status == models.TriggerActive {
			d := duration
			t.Duration = &d
			t.Status = models.TriggerResolved
			return
		}
	}
}

// recomputeStats recalculates the aggregates over the full history.
// Caller holds s.mu.
func (s *TrackerService) recomputeStats(now time.Time) {
	today := now.Local()
	ty, tm, td := today.Date()

	var (
		total, todayCount int
		durations         []int
	)
	for _, t := range s.triggers {
		if t.Type == models.TriggerMotionStart {
			total++
			y, m, d := t.Timestamp.Local().Date()
			if y == ty && m == tm && d == td {
				todayCount++
			}
		}
		if t.Duration != nil {
			durations = append(durations, *t.Duration)
		}
	}

	var sum, longest int
	for _, d := range durations {
		sum += d
		if d > longest {
			longest = d
		}
	}
	average := 0.0
	if len(durations) > 0 {
		average = float64(sum) / float64(len(durations))
	}

	s.stats.TotalTriggers = total
	s.stats.TodayTriggers = todayCount
	s.stats.AverageDuration = average
	s.stats.LongestDuration = longest
}

// Triggers returns a copy of the trigger history, newest first.
func (s *TrackerService) Triggers() []models.TriggerEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyTriggers()
}

// Stats returns a copy of the current aggregates.
func (s *TrackerService) Stats() models.TriggerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Subscribe registers a callback for history/stats changes, invoked
// immediately with the current state. The returned func unregisters it.
func (s *TrackerService) Subscribe(fn func(triggers []models.TriggerEvent, stats models.TriggerStats)) func() {
	sub := &triggerSubscriber{fn: fn}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	triggers := s.copyTriggers()
	stats := s.stats
	s.mu.Unlock()

	fn(triggers, stats)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, cur := range s.subs {
			if cur == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// copyTriggers deep-copies the history so callers cannot mutate the shared
// duration pointers. Caller holds s.mu.
func (s *TrackerService) copyTriggers() []models.TriggerEvent {
	out := make([]models.TriggerEvent, len(s.triggers))
	copy(out, s.triggers)
	for i := range out {
		if out[i].Duration != nil {
			d := *out[i].Duration
			out[i].Duration = &d
		}
	}
	return out
}

func (s *TrackerService) notifySubs() {
	s.mu.Lock()
	subs := make([]*triggerSubscriber, len(s.subs))
	copy(subs, s.subs)
	triggers := s.copyTriggers()
	stats := s.stats
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(triggers, stats)
	}
}
