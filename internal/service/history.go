package service

import (
	"context"
	"errors"
	"time"

	"farmtech_irrigation/internal/models"
	"farmtech_irrigation/internal/repository"
)

const maxHistoryLimit = 500

var (
	ErrUnknownSensor    = errors.New("unknown sensor")
	ErrInvalidLimit     = errors.New("invalid limit: must be between 0 and 500")
	ErrInvalidTimeRange = errors.New("invalid time range: since must be <= until")
)

// HistoryFilter bounds a history query. Zero Since/Until mean unbounded;
// Limit 0 means the store default.
type HistoryFilter struct {
	Limit int
	Since time.Time
	Until time.Time
}

type HistoryService struct {
	sensors    map[string]bool
	readings   repository.ReadingRepo
	alerts     repository.AlertRepo
	irrigation repository.IrrigationRepo
}

func NewHistoryService(defs []models.Sensor, repos *repository.Repository) *HistoryService {
	ids := make(map[string]bool, len(defs))
	for _, d := range defs {
		ids[d.ID] = true
	}
	return &HistoryService{
		sensors:    ids,
		readings:   repos.Readings,
		alerts:     repos.Alerts,
		irrigation: repos.Irrigation,
	}
}

// normalizeFilter validates f and returns its bounds in UTC.
func normalizeFilter(f HistoryFilter) (HistoryFilter, error) {
	if f.Limit < 0 || f.Limit > maxHistoryLimit {
		return HistoryFilter{}, ErrInvalidLimit
	}
	f.Since = toUTC(f.Since)
	f.Until = toUTC(f.Until)
	if !f.Since.IsZero() && !f.Until.IsZero() && f.Since.After(f.Until) {
		return HistoryFilter{}, ErrInvalidTimeRange
	}
	return f, nil
}

func (f HistoryFilter) timeRange() repository.TimeRange {
	return repository.TimeRange{Since: f.Since, Until: f.Until}
}

// SensorReadings returns the last readings of one sensor inside the
// filter bounds, oldest first.
func (s *HistoryService) SensorReadings(ctx context.Context, sensorID string, f HistoryFilter) ([]models.Reading, error) {
	if !s.sensors[sensorID] {
		return nil, ErrUnknownSensor
	}
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.readings.Latest(ctx, sensorID, f.timeRange(), f.Limit)
}

// RecentAlerts returns alerts newest first. The store applies the time
// bounds before the limit, so older matches are still reachable.
func (s *HistoryService) RecentAlerts(ctx context.Context, f HistoryFilter) ([]models.Alert, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.alerts.Recent(ctx, f.timeRange(), f.Limit)
}

// RecentIrrigation returns irrigation events newest first.
func (s *HistoryService) RecentIrrigation(ctx context.Context, f HistoryFilter) ([]models.IrrigationEvent, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.irrigation.Recent(ctx, f.timeRange(), f.Limit)
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
