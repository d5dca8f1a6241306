package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"farmtech_irrigation/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errGetState     = "failed to load state"
	errGetReadings  = "failed to load readings"
	errRunTick      = "simulation tick not run"
	errUnknownID    = "unknown sensor"
	errInvalidLimit = "invalid 'limit'; use an integer between 0 and 500"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// parseLimit reads ?limit=N; missing means the store default.
func parseLimit(c *gin.Context) (int, bool) {
	s := c.Query("limit")
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Dashboard state
// @Description  Latest committed reading per sensor, irrigation conditions and controller state
// @Tags         sensors
// @Produce      json
// @Success      200  {object}  service.DashboardState
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sensors/state [get]
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "dashboard_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Sensor readings
// @Description  Last N readings of one sensor, oldest first
// @Tags         sensors
// @Produce      json
// @Param        id     path   string  true   "Sensor id"  example(DHT22_01)
// @Param        limit  query  int     false  "Max readings (default 50)"
// @Success      200  {object}  map[string]interface{}  "count, readings"
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/sensors/{id}/readings [get]
func (h *Handler) getSensorReadings(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
		return
	}
	id := c.Param("id")
	rs, err := h.services.History.SensorReadings(c.Request.Context(), id, service.HistoryFilter{Limit: limit})
	switch {
	case errors.Is(err, service.ErrUnknownSensor):
		c.JSON(http.StatusNotFound, gin.H{"error": errUnknownID})
		return
	case errors.Is(err, service.ErrInvalidLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errGetReadings, "sensor_readings_failed", err, "sensor_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sensor_id": id,
		"count":     len(rs),
		"readings":  rs,
	})
}

// @Summary      Run one simulation tick
// @Description  Simulates, evaluates and persists one tick and returns what it produced
// @Tags         simulation
// @Produce      json
// @Success      200  {object}  service.TickResult
// @Failure      503  {object}  map[string]string
// @Router       /api/v1/simulation/tick [post]
func (h *Handler) runTick(c *gin.Context) {
	res, err := h.services.Simulator.Tick(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.logAndJSONError(c, http.StatusServiceUnavailable, errRunTick, "manual_tick_failed", err)
		return
	}
	h.services.Monitoring.Invalidate()
	h.ticks.publish(res)
	c.JSON(http.StatusOK, res)
}
