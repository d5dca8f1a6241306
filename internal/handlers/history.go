package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"farmtech_irrigation/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errSinceInvalid = "invalid 'since' time; use RFC3339 or YYYY-MM-DD"
	errUntilInvalid = "invalid 'until' time; use RFC3339 or YYYY-MM-DD"
	errRangeInvalid = "'since' must be <= 'until'"
	errGetAlerts    = "failed to load alerts"
	errGetEvents    = "failed to load irrigation events"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// parseHistoryFilter reads limit, since and until. A date-only 'until' is
// the end of that day, inclusive.
func parseHistoryFilter(c *gin.Context) (service.HistoryFilter, string) {
	var f service.HistoryFilter
	limit, ok := parseLimit(c)
	if !ok {
		return f, errInvalidLimit
	}
	f.Limit = limit

	if qs := c.Query("since"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			return f, errSinceInvalid
		}
		f.Since = t
	}
	if qs := c.Query("until"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			return f, errUntilInvalid
		}
		if isDateOnly(qs) {
			t = t.Add(24*time.Hour - time.Nanosecond).UTC()
		}
		f.Until = t
	}
	return f, ""
}

// badFilter maps service validation errors to a 400 message.
func badFilter(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrInvalidLimit):
		return errInvalidLimit, true
	case errors.Is(err, service.ErrInvalidTimeRange):
		return errRangeInvalid, true
	}
	return "", false
}

// @Summary      List alerts
// @Description  Newest first. 'since'/'until' accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'.
// @Tags         history
// @Produce      json
// @Param        limit  query  int     false  "Max alerts (default 50)"
// @Param        since  query  string  false  "Lower bound"  example(2025-03-01)
// @Param        until  query  string  false  "Upper bound; date-only means end of day"  example(2025-03-31)
// @Success      200  {object}  map[string]interface{}  "count, alerts"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/alerts [get]
func (h *Handler) getAlerts(c *gin.Context) {
	f, msg := parseHistoryFilter(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	alerts, err := h.services.History.RecentAlerts(c.Request.Context(), f)
	if err != nil {
		if m, ok := badFilter(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": m})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetAlerts, "alerts_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// @Summary      List irrigation events
// @Description  Newest first
// @Tags         history
// @Produce      json
// @Param        limit  query  int     false  "Max events (default 50)"
// @Param        since  query  string  false  "Lower bound"
// @Param        until  query  string  false  "Upper bound"
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/irrigation [get]
func (h *Handler) getIrrigation(c *gin.Context) {
	f, msg := parseHistoryFilter(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	events, err := h.services.History.RecentIrrigation(c.Request.Context(), f)
	if err != nil {
		if m, ok := badFilter(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": m})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetEvents, "irrigation_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-03-01T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
