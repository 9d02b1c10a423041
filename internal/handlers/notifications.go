package handlers

import (
	"net/http"
	"time"

	"motion_dashboard/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	errListNotifications = "failed to load notifications"
	errSendNotification  = "failed to process notification"
)

// Request DTO for outbound notifications.
type notificationRequest struct {
	Type      string    `json:"type" binding:"required"`
	Message   string    `json:"message" binding:"required"`
	Priority  string    `json:"priority,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// NotificationRequest is an exported model for Swagger docs of the notification payload.
type NotificationRequest struct {
	Type string `json:"type" example:"motion_detected"`
	// Human-readable alert text
	Message string `json:"message" example:"Motion detected in Living Room"`
	// normal or high; defaults to normal
	Priority string `json:"priority,omitempty" example:"high"`
}

// @Summary      Send a notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        body  body   NotificationRequest  true  "Notification payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/notifications [post]
func (h *Handler) postNotification(c *gin.Context) {
	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	n, err := h.services.Notifications.Send(c.Request.Context(), models.Notification{
		Type:      req.Type,
		Message:   req.Message,
		Priority:  req.Priority,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSendNotification, "notification_send_failed", err, "type", req.Type)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "sent",
		"notification": n,
	})
}

// @Summary      List recent notifications
// @Tags         notifications
// @Produce      json
// @Param        limit  query  int  false  "Maximum number of notifications (default 10)"
// @Success      200  {object}  map[string]interface{}  "count, notifications"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/notifications [get]
func (h *Handler) getNotifications(c *gin.Context) {
	notifications, err := h.services.Notifications.Recent(c.Request.Context(), parseLimit(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListNotifications, "notifications_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":         len(notifications),
		"notifications": notifications,
	})
}
