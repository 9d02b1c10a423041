package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motion_dashboard/internal/logger"
	"motion_dashboard/internal/models"
)

// Command actions accepted by the system endpoint.
const (
	ActionArm    = "arm"
	ActionDisarm = "disarm"
)

// ErrInvalidAction is returned for any command other than arm or disarm.
var ErrInvalidAction = errors.New("invalid action: use 'arm' or 'disarm'")

// statusSource provides the current snapshot the command merges over.
type statusSource interface {
	Status() models.SystemStatus
}

// SecurityService handles arm/disarm commands. It publishes the merged
// system object back to the broker rather than mutating local state; the
// system subscription then applies it, the same path every other status
// update takes. Transport failure is the one error category surfaced upward.
type SecurityService struct {
	status statusSource
	pub    SystemPublisher
	now    func() time.Time
	log    *logger.Logger
}

func NewSecurityService(status statusSource, pub SystemPublisher, log *logger.Logger) *SecurityService {
	return &SecurityService{
		status: status,
		pub:    pub,
		now:    time.Now,
		log:    log,
	}
}

// SetArmed applies an arm or disarm command and returns the published state.
func (s *SecurityService) SetArmed(ctx context.Context, action string) (models.SystemStatus, error) {
	if action != ActionArm && action != ActionDisarm {
		return models.SystemStatus{}, ErrInvalidAction
	}

	st := s.status.Status()
	st.SystemArmed = action == ActionArm
	st.LastAction = action
	st.ActionTimestamp = s.now().UTC()

	if err := s.pub.PublishSystem(st); err != nil {
		return models.SystemStatus{}, fmt.Errorf("publish system command: %w", err)
	}

	if s.log != nil {
		s.log.Infow("system command published", "action", action)
	}
	return st, nil
}
