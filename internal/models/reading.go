package models

import (
	"fmt"
	"time"
)

// Reading is a single immutable sensor measurement.
type Reading struct {
	SensorID  string     `json:"sensor_id"`
	Kind      SensorKind `json:"kind"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit"`
	Status    string     `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewReading builds a reading for s, rejecting values outside s.Absolute.
func NewReading(s Sensor, value float64, at time.Time) (Reading, error) {
	if !s.Absolute.Contains(value) {
		return Reading{}, fmt.Errorf("sensor %s: %.2f not in [%.2f, %.2f]: %w",
			s.ID, value, s.Absolute.Min, s.Absolute.Max, ErrOutOfRange)
	}
	if at.IsZero() {
		at = time.Now()
	}
	return Reading{
		SensorID:  s.ID,
		Kind:      s.Kind,
		Value:     value,
		Unit:      s.Unit,
		Status:    s.Status(value),
		Timestamp: at.UTC(),
	}, nil
}
