package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"motion_dashboard/internal/logger"
	"motion_dashboard/internal/models"
	"motion_dashboard/internal/repository"

	"github.com/google/uuid"
)

const webhookTimeout = 5 * time.Second

var errMissingNotificationFields = errors.New("type and message are required")

// NotifierService logs every notification, persists it, and forwards it to
// the configured webhook. Webhook failures are logged and never surfaced.
type NotifierService struct {
	repo       repository.NotificationRepo
	webhookURL string
	client     *http.Client
	log        *logger.Logger
}

func NewNotifierService(repo repository.NotificationRepo, webhookURL string, log *logger.Logger) *NotifierService {
	return &NotifierService{
		repo:       repo,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: webhookTimeout},
		log:        log,
	}
}

// Send validates, stores, and forwards a notification. The returned value
// carries the assigned ID and timestamp. A storage error is returned to the
// caller; a webhook delivery error is not.
func (s *NotifierService) Send(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.Type == "" || n.Message == "" {
		return models.Notification{}, errMissingNotificationFields
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Priority == "" {
		n.Priority = models.PriorityNormal
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	n.Sent = true

	if s.log != nil {
		s.log.Infow("notification", "type", n.Type, "priority", n.Priority, "message", n.Message)
	}

	if err := s.repo.Insert(ctx, n); err != nil {
		return models.Notification{}, fmt.Errorf("store notification: %w", err)
	}

	if s.webhookURL != "" {
		if err := s.postWebhook(ctx, n); err != nil && s.log != nil {
			s.log.Errorw("notification webhook failed", "err", err, "type", n.Type)
		}
	}

	return n, nil
}

// Notify dispatches asynchronously for callers that must not block or see
// errors, such as the alarm classifier.
func (s *NotifierService) Notify(n models.Notification) {
	go func() {
		if _, err := s.Send(context.Background(), n); err != nil && s.log != nil {
			s.log.Errorw("notification dispatch failed", "err", err, "type", n.Type)
		}
	}()
}

// Recent returns the most recently stored notifications, newest first.
func (s *NotifierService) Recent(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *NotifierService) postWebhook(ctx context.Context, n models.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
