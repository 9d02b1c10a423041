package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	errListReports  = "failed to load motion events"
	errStoreReport  = "failed to store motion event"
	defaultGetLimit = 0 // service applies its own default
)

// Request DTO for device motion reports.
type motionReportRequest struct {
	SensorLocation string `json:"sensor_location" binding:"required"`
}

// MotionReportRequest is an exported model for Swagger docs of the report payload.
type MotionReportRequest struct {
	// Where the report came from
	SensorLocation string `json:"sensor_location" example:"ESP32-CAM Area"`
}

// parseLimit reads ?limit=N; non-numeric or missing values fall through to
// the service default.
func parseLimit(c *gin.Context) int {
	if qs := c.Query("limit"); qs != "" {
		if v, err := strconv.Atoi(qs); err == nil {
			return v
		}
	}
	return defaultGetLimit
}

// @Summary      List persisted motion reports
// @Tags         motion
// @Produce      json
// @Param        limit  query  int  false  "Maximum number of reports (default 20, cap 100)"
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/motion [get]
func (h *Handler) getMotionReports(c *gin.Context) {
	reports, err := h.services.MotionLog.Recent(c.Request.Context(), parseLimit(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListReports, "motion_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(reports),
		"events": reports,
	})
}

// @Summary      Record a motion report from the device
// @Tags         motion
// @Accept       json
// @Produce      json
// @Param        body  body   MotionReportRequest  true  "Report payload"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/motion [post]
func (h *Handler) postMotionReport(c *gin.Context) {
	var req motionReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	report, err := h.services.MotionLog.Record(c.Request.Context(), req.SensorLocation)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errStoreReport, "motion_record_failed", err, "sensor_location", req.SensorLocation)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "recorded",
		"event":  report,
	})
}
