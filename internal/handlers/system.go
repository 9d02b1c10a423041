package handlers

import (
	"errors"
	"net/http"

	"motion_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errSystemCommand   = "failed to apply system command"
	errInvalidBodyPref = "invalid body: "
)

// Request DTO for arm/disarm.
type systemCommandRequest struct {
	Action string `json:"action" binding:"required"` // arm | disarm
}

// SystemCommandRequest is an exported model for Swagger docs of the command payload.
type SystemCommandRequest struct {
	// Action to apply. Allowed: arm, disarm
	Action string `json:"action" example:"arm"`
}

// @Summary      Get system status
// @Description  isOnline is derived from heartbeat freshness (2-minute window), not from the device-reported flag.
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status"
// @Router       /api/v1/system [get]
func (h *Handler) getSystemStatus(c *gin.Context) {
	st := h.services.Monitor.Status()
	st.IsOnline = h.services.Monitor.Fresh()
	c.JSON(http.StatusOK, gin.H{"status": st})
}

// @Summary      Arm or disarm the system
// @Tags         system
// @Accept       json
// @Produce      json
// @Param        body  body   SystemCommandRequest  true  "Command payload"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/system [post]
func (h *Handler) postSystemCommand(c *gin.Context) {
	var req systemCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	st, err := h.services.Security.SetArmed(c.Request.Context(), req.Action)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAction) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errSystemCommand, "system_command_failed", err, "action", req.Action)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "system " + req.Action + "ed",
		"systemArmed": st.SystemArmed,
		"timestamp":   st.ActionTimestamp,
	})
}

// @Summary      List classified motion events
// @Description  In-memory ring of the most recent classified alarm events, newest first (max 50).
// @Tags         events
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Router       /api/v1/events [get]
func (h *Handler) getEvents(c *gin.Context) {
	events := h.services.Monitor.Events()
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// @Summary      Trigger history and statistics
// @Tags         triggers
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "stats, triggers"
// @Router       /api/v1/triggers [get]
func (h *Handler) getTriggers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stats":    h.services.Triggers.Stats(),
		"triggers": h.services.Triggers.Triggers(),
	})
}
