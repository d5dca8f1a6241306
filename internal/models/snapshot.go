package models

import "time"

// Snapshot is the latest reading per monitored kind, taken at one tick.
type Snapshot struct {
	TakenAt  time.Time              `json:"taken_at"`
	Readings map[SensorKind]Reading `json:"readings"`
}

// NewSnapshot indexes readings by kind. A later reading for the same kind wins.
func NewSnapshot(at time.Time, readings ...Reading) Snapshot {
	s := Snapshot{TakenAt: at.UTC(), Readings: make(map[SensorKind]Reading, len(readings))}
	for _, r := range readings {
		s.Readings[r.Kind] = r
	}
	return s
}

// Value returns the reading value for kind.
func (s Snapshot) Value(kind SensorKind) (float64, bool) {
	r, ok := s.Readings[kind]
	if !ok {
		return 0, false
	}
	return r.Value, true
}

// Present reports whether a presence sensor reads 1. Missing counts as absent.
func (s Snapshot) Present(kind SensorKind) bool {
	v, ok := s.Value(kind)
	return ok && v >= 1
}

// SensorID returns the id of the sensor that produced the kind's reading.
func (s Snapshot) SensorID(kind SensorKind) string {
	return s.Readings[kind].SensorID
}
