package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"motion_dashboard/internal/models"
)

// fakeClock is a settable clock for deterministic freshness/duration math.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// alertSinkStub records notifications passed to Notify.
type alertSinkStub struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (s *alertSinkStub) Notify(n models.Notification) {
	s.mu.Lock()
	s.sent = append(s.sent, n)
	s.mu.Unlock()
}

func (s *alertSinkStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestProcessAlarm_Classification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		message   string
		wantType  string
		wantEvent bool
	}{
		{"detected_with_decoration", "🚨 Motion detected at front door", models.EventMotionDetected, true},
		{"cleared_plain", "✅ Motion cleared", models.EventMotionCleared, true},
		{"unrecognized", "hello world", "", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			clk := newFakeClock(testEpoch)
			mon := NewMonitorService(nil, nil, WithClock(clk.Now))

			mon.ProcessAlarm(tc.message)

			events := mon.Events()
			if tc.wantEvent {
				if len(events) != 1 {
					t.Fatalf("expected 1 event, got %d", len(events))
				}
				ev := events[0]
				if ev.Type != tc.wantType {
					t.Errorf("type: want %q, got %q", tc.wantType, ev.Type)
				}
				if ev.Message != tc.message {
					t.Errorf("message not preserved: %q", ev.Message)
				}
				if ev.ID == "" {
					t.Errorf("event ID must be assigned")
				}
				if !ev.Timestamp.Equal(testEpoch) || !ev.CreatedAt.Equal(testEpoch) {
					t.Errorf("timestamps: want %v, got %v / %v", testEpoch, ev.Timestamp, ev.CreatedAt)
				}
			} else if len(events) != 0 {
				t.Fatalf("expected no events, got %d", len(events))
			}

			// Heartbeat side effects apply in every case.
			st := mon.Status()
			if !st.IsOnline {
				t.Errorf("isOnline must be set by any alarm")
			}
			if !st.LastHeartbeat.Equal(testEpoch) {
				t.Errorf("lastHeartbeat: want %v, got %v", testEpoch, st.LastHeartbeat)
			}
			if tc.wantEvent {
				wantMotion := tc.wantType == models.EventMotionDetected
				if st.MotionDetected != wantMotion {
					t.Errorf("motionDetected: want %v, got %v", wantMotion, st.MotionDetected)
				}
			}
		})
	}
}

func TestEventRing_Bound(t *testing.T) {
	t.Parallel()

	clk := newFakeClock(testEpoch)
	mon := NewMonitorService(nil, nil, WithClock(clk.Now))

	const pushed = 60
	for i := 0; i < pushed; i++ {
		mon.ProcessAlarm(fmt.Sprintf("🚨 Motion detected #%d", i))
		clk.Advance(time.Second)
	}

	events := mon.Events()
	if len(events) != 50 {
		t.Fatalf("ring length: want 50, got %d", len(events))
	}
	if want := fmt.Sprintf("🚨 Motion detected #%d", pushed-1); events[0].Message != want {
		t.Errorf("newest first: want %q, got %q", want, events[0].Message)
	}
	if want := fmt.Sprintf("🚨 Motion detected #%d", pushed-50); events[49].Message != want {
		t.Errorf("oldest kept: want %q, got %q", want, events[49].Message)
	}

	// Returned slice is a copy; mutating it must not corrupt the ring.
	events[0].Message = "tampered"
	if mon.Events()[0].Message == "tampered" {
		t.Errorf("Events must return a defensive copy")
	}
}

func TestFresh_Boundary(t *testing.T) {
	t.Parallel()

	clk := newFakeClock(testEpoch)
	mon := NewMonitorService(nil, nil, WithClock(clk.Now))

	if mon.Fresh() {
		t.Fatalf("Fresh must be false before any heartbeat")
	}

	mon.ProcessAlarm("heartbeat only")

	cases := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"119s_fresh", 119 * time.Second, true},
		{"120s_stale", 120 * time.Second, false},
		{"121s_stale", 121 * time.Second, false},
	}
	for _, tc := range cases {
		clk2 := newFakeClock(testEpoch)
		m := NewMonitorService(nil, nil, WithClock(clk2.Now))
		m.ProcessAlarm("heartbeat only")
		clk2.Advance(tc.elapsed)
		if got := m.Fresh(); got != tc.want {
			t.Errorf("%s: Fresh() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestApplySystemPatch_MergePreservesFields(t *testing.T) {
	t.Parallel()

	clk := newFakeClock(testEpoch)
	mon := NewMonitorService(nil, nil, WithClock(clk.Now))

	ip := "192.168.1.42"
	mon.ApplySystemPatch(models.SystemPatch{ESP32IP: &ip})

	clk.Advance(time.Minute)
	motion := true
	mon.ApplySystemPatch(models.SystemPatch{MotionDetected: &motion})

	st := mon.Status()
	if st.ESP32IP != ip {
		t.Errorf("ESP32IP must survive a patch that omits it, got %q", st.ESP32IP)
	}
	if !st.MotionDetected {
		t.Errorf("MotionDetected not applied")
	}
	if !st.SystemArmed {
		t.Errorf("SystemArmed default true must be preserved")
	}
	if want := testEpoch.Add(time.Minute); !st.LastHeartbeat.Equal(want) {
		t.Errorf("any push refreshes heartbeat: want %v, got %v", want, st.LastHeartbeat)
	}
}

func TestSubscribeEvents_LateSubscriberReplay(t *testing.T) {
	t.Parallel()

	mon := NewMonitorService(nil, nil, WithClock(newFakeClock(testEpoch).Now))
	for i := 0; i < 3; i++ {
		mon.ProcessAlarm("🚨 Motion detected again")
	}

	var replayed []models.MotionEvent
	calls := 0
	unsub := mon.SubscribeEvents(func(events []models.MotionEvent) {
		calls++
		if calls == 1 {
			replayed = events
		}
	})
	defer unsub()

	if calls != 1 {
		t.Fatalf("subscribe must replay synchronously exactly once, got %d calls", calls)
	}
	if len(replayed) != 3 {
		t.Fatalf("replay snapshot: want 3 events, got %d", len(replayed))
	}

	mon.ProcessAlarm("✅ Motion cleared")
	if calls != 2 {
		t.Fatalf("expected delivery on change, got %d calls", calls)
	}
}

func TestUnsubscribe_DuringNotificationPass(t *testing.T) {
	t.Parallel()

	mon := NewMonitorService(nil, nil, WithClock(newFakeClock(testEpoch).Now))

	secondCalls := 0
	var unsubSecond func()

	// First subscriber tears down the second one mid-pass.
	mon.SubscribeStatus(func(models.SystemStatus) {
		if unsubSecond != nil {
			unsubSecond()
		}
	})
	unsubSecond = mon.SubscribeStatus(func(models.SystemStatus) {
		secondCalls++
	})
	secondCalls = 0 // ignore the replay call

	mon.ProcessAlarm("heartbeat")
	if secondCalls != 1 {
		t.Fatalf("in-progress pass must still deliver to the unsubscribed callback, got %d", secondCalls)
	}

	mon.ProcessAlarm("heartbeat")
	if secondCalls != 1 {
		t.Fatalf("later passes must skip the unsubscribed callback, got %d", secondCalls)
	}
}

func TestProcessAlarm_ArmedGating(t *testing.T) {
	t.Parallel()

	clk := newFakeClock(testEpoch)
	sink := &alertSinkStub{}
	mon := NewMonitorService(sink, nil, WithClock(clk.Now))

	disarmed := false
	mon.ApplySystemPatch(models.SystemPatch{SystemArmed: &disarmed})

	mon.ProcessAlarm("🚨 Motion detected in hallway")
	if got := sink.count(); got != 0 {
		t.Fatalf("disarmed system must not notify, got %d", got)
	}
	st := mon.Status()
	if !st.MotionDetected || st.LastHeartbeat.IsZero() {
		t.Fatalf("detection must still be recorded while disarmed: %+v", st)
	}

	armed := true
	mon.ApplySystemPatch(models.SystemPatch{SystemArmed: &armed})

	mon.ProcessAlarm("🚨 Motion detected in hallway")
	if got := sink.count(); got != 1 {
		t.Fatalf("armed detection must notify exactly once, got %d", got)
	}
	n := sink.sent[0]
	if n.Type != models.EventMotionDetected || n.Priority != models.PriorityHigh {
		t.Errorf("unexpected notification: %+v", n)
	}
	if want := "🚨 Security Alert: 🚨 Motion detected in hallway"; n.Message != want {
		t.Errorf("message: want %q, got %q", want, n.Message)
	}

	// Cleared events never notify.
	mon.ProcessAlarm("✅ Motion cleared")
	if got := sink.count(); got != 1 {
		t.Fatalf("cleared event must not notify, got %d", got)
	}
}
