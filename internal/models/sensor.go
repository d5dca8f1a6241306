package models

import (
	"errors"
	"fmt"
	"time"
)

// SensorKind is the semantic type of a monitored sensor.
type SensorKind string

const (
	KindMoisture   SensorKind = "moisture"
	KindPH         SensorKind = "ph"
	KindPhosphorus SensorKind = "phosphorus"
	KindPotassium  SensorKind = "potassium"
)

// MonitoredKinds lists the kinds every snapshot is expected to carry.
var MonitoredKinds = []SensorKind{KindMoisture, KindPH, KindPhosphorus, KindPotassium}

// IsPresence reports whether the kind is a binary nutrient sensor.
func (k SensorKind) IsPresence() bool {
	return k == KindPhosphorus || k == KindPotassium
}

// Valid reports whether k is one of the known kinds.
func (k SensorKind) Valid() bool {
	for _, m := range MonitoredKinds {
		if k == m {
			return true
		}
	}
	return false
}

// Reading status values persisted alongside each reading.
const (
	StatusLow     = "low"
	StatusHigh    = "high"
	StatusOK      = "ok"
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// ErrOutOfRange is returned when a value violates a sensor's absolute range.
var ErrOutOfRange = errors.New("value outside sensor absolute range")

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Sensor is a monitored sensor with its chronological readings.
type Sensor struct {
	ID       string     `json:"id"`
	Kind     SensorKind `json:"kind"`
	Unit     string     `json:"unit"`
	Ideal    Range      `json:"ideal"`
	Absolute Range      `json:"absolute"`
	Readings []Reading  `json:"readings,omitempty"`
}

// Last returns the most recent reading, if any.
func (s *Sensor) Last() (Reading, bool) {
	if len(s.Readings) == 0 {
		return Reading{}, false
	}
	return s.Readings[len(s.Readings)-1], true
}

// Append validates value against the absolute range and appends a reading.
func (s *Sensor) Append(value float64, at time.Time) (Reading, error) {
	r, err := NewReading(*s, value, at)
	if err != nil {
		return Reading{}, err
	}
	s.Readings = append(s.Readings, r)
	return r, nil
}

// Status classifies v against the ideal range.
func (s Sensor) Status(v float64) string {
	if s.Kind.IsPresence() {
		if v >= 1 {
			return StatusPresent
		}
		return StatusAbsent
	}
	switch {
	case v < s.Ideal.Min:
		return StatusLow
	case v > s.Ideal.Max:
		return StatusHigh
	default:
		return StatusOK
	}
}

// Validate checks the definition itself.
func (s Sensor) Validate() error {
	if s.ID == "" {
		return errors.New("sensor id is empty")
	}
	if !s.Kind.Valid() {
		return fmt.Errorf("sensor %q: unknown kind %q", s.ID, s.Kind)
	}
	if s.Absolute.Min > s.Absolute.Max {
		return fmt.Errorf("sensor %q: absolute min %.2f > max %.2f", s.ID, s.Absolute.Min, s.Absolute.Max)
	}
	if s.Ideal.Min > s.Ideal.Max {
		return fmt.Errorf("sensor %q: ideal min %.2f > max %.2f", s.ID, s.Ideal.Min, s.Ideal.Max)
	}
	if !s.Absolute.Contains(s.Ideal.Min) || !s.Absolute.Contains(s.Ideal.Max) {
		return fmt.Errorf("sensor %q: ideal range not inside absolute range", s.ID)
	}
	return nil
}
