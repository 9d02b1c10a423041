package handlers

import (
	"context"
	"time"

	"motion_dashboard/internal/models"
	"motion_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitor struct {
	status  models.SystemStatus
	events  []models.MotionEvent
	fresh   bool
	alarms  []string
	patches []models.SystemPatch
}

func (m *mockMonitor) ProcessAlarm(message string)                { m.alarms = append(m.alarms, message) }
func (m *mockMonitor) ApplySystemPatch(patch models.SystemPatch)  { m.patches = append(m.patches, patch) }
func (m *mockMonitor) Status() models.SystemStatus                { return m.status }
func (m *mockMonitor) Events() []models.MotionEvent               { return m.events }
func (m *mockMonitor) Fresh() bool                                { return m.fresh }
func (m *mockMonitor) RunFreshnessWatch(context.Context, time.Duration) {}

func (m *mockMonitor) SubscribeEvents(fn func(events []models.MotionEvent)) func() {
	fn(m.events)
	return func() {}
}

func (m *mockMonitor) SubscribeStatus(fn func(status models.SystemStatus)) func() {
	fn(m.status)
	return func() {}
}

type mockSecurity struct {
	resp       models.SystemStatus
	err        error
	lastAction string
	calls      int
}

func (m *mockSecurity) SetArmed(ctx context.Context, action string) (models.SystemStatus, error) {
	m.calls++
	m.lastAction = action
	return m.resp, m.err
}

type mockTriggers struct {
	triggers []models.TriggerEvent
	stats    models.TriggerStats
	observed []bool
}

func (m *mockTriggers) ObserveMotion(detected bool)  { m.observed = append(m.observed, detected) }
func (m *mockTriggers) Triggers() []models.TriggerEvent { return m.triggers }
func (m *mockTriggers) Stats() models.TriggerStats      { return m.stats }

func (m *mockTriggers) Subscribe(fn func(triggers []models.TriggerEvent, stats models.TriggerStats)) func() {
	fn(m.triggers, m.stats)
	return func() {}
}

type mockMotionLog struct {
	recordResp   models.MotionReport
	recordErr    error
	listResp     []models.MotionReport
	listErr      error
	lastLimit    int
	lastLocation string
}

func (m *mockMotionLog) Record(ctx context.Context, sensorLocation string) (models.MotionReport, error) {
	m.lastLocation = sensorLocation
	return m.recordResp, m.recordErr
}

func (m *mockMotionLog) Recent(ctx context.Context, limit int) ([]models.MotionReport, error) {
	m.lastLimit = limit
	return m.listResp, m.listErr
}

type mockNotifications struct {
	sendResp  models.Notification
	sendErr   error
	listResp  []models.Notification
	listErr   error
	lastSent  models.Notification
	lastLimit int
}

func (m *mockNotifications) Send(ctx context.Context, n models.Notification) (models.Notification, error) {
	m.lastSent = n
	return m.sendResp, m.sendErr
}

func (m *mockNotifications) Recent(ctx context.Context, limit int) ([]models.Notification, error) {
	m.lastLimit = limit
	return m.listResp, m.listErr
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
