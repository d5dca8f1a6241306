package simulation

import (
	"math"
	"time"

	"farmtech_irrigation/internal/models"
)

// ----------- Simulation constants -----------
const (
	MoistureFloor   = 15.0
	MoistureCeiling = 95.0
	DefaultMoisture = 50.0

	// band drawn from while the soil is still wet from a recent irrigation
	PostIrrigationLow  = 65.0
	PostIrrigationHigh = 85.0

	PHFloor   = 5.0
	PHCeiling = 8.0
	DefaultPH = 6.5
	PHIdealLo = 5.5
	PHIdealHi = 7.5

	NutrientPresentProbability = 0.92

	// DefaultHistory is how many readings per sensor a model keeps and restores.
	DefaultHistory = 24
)

// Source is the randomness a model draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// uniform draws from [lo, hi).
func uniform(rnd Source, lo, hi float64) float64 {
	return lo + rnd.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Next returns the next simulated value for a sensor of the given kind.
// It depends only on prev, mode and the values drawn from rnd.
func Next(kind models.SensorKind, prev float64, hasPrev bool, mode Mode, rnd Source) float64 {
	switch kind {
	case models.KindMoisture:
		if !hasPrev {
			prev = DefaultMoisture
		}
		return nextMoisture(prev, mode, rnd)
	case models.KindPH:
		if !hasPrev {
			prev = DefaultPH
		}
		return nextPH(prev, rnd)
	case models.KindPhosphorus, models.KindPotassium:
		return nextPresence(rnd)
	default:
		return prev
	}
}

// nextMoisture dries the soil faster the wetter it is. Right after an
// irrigation the value is drawn from the elevated post-irrigation band.
func nextMoisture(prev float64, mode Mode, rnd Source) float64 {
	if mode == ModePostIrrigation {
		return uniform(rnd, PostIrrigationLow, PostIrrigationHigh)
	}
	var step float64
	switch {
	case prev > 70:
		step = uniform(rnd, -8, -5)
	case prev > 55:
		step = uniform(rnd, -6, -4)
	case prev > 40:
		step = uniform(rnd, -5, -3)
	default:
		step = uniform(rnd, -4, -2)
	}
	return clamp(prev+step, MoistureFloor, MoistureCeiling)
}

// nextPH pulls the value back toward [5.5, 7.5], harder the further out it sits.
func nextPH(prev float64, rnd Source) float64 {
	var step float64
	switch {
	case prev < PHFloor:
		step = uniform(rnd, 0.3, 0.6)
	case prev < PHIdealLo:
		step = uniform(rnd, 0.1, 0.4)
	case prev > PHCeiling:
		step = uniform(rnd, -0.6, -0.3)
	case prev > PHIdealHi:
		step = uniform(rnd, -0.4, -0.1)
	default:
		step = uniform(rnd, -0.15, 0.15)
	}
	return clamp(prev+step, PHFloor, PHCeiling)
}

func nextPresence(rnd Source) float64 {
	if rnd.Float64() < NutrientPresentProbability {
		return 1
	}
	return 0
}

// SensorModel owns a sensor definition and its bounded reading history.
type SensorModel struct {
	sensor  models.Sensor
	history int
}

// NewSensorModel builds a model from a definition and prior readings in
// chronological order. Readings outside the absolute range are skipped.
func NewSensorModel(def models.Sensor, prior []models.Reading, history int) *SensorModel {
	if history <= 0 {
		history = DefaultHistory
	}
	def.Readings = nil
	m := &SensorModel{sensor: def, history: history}
	for _, r := range prior {
		if r.SensorID != def.ID || !def.Absolute.Contains(r.Value) {
			continue
		}
		r.Kind = def.Kind
		m.sensor.Readings = append(m.sensor.Readings, r)
	}
	m.trim()
	return m
}

// Sensor returns a copy of the sensor with its current history.
func (m *SensorModel) Sensor() models.Sensor {
	s := m.sensor
	s.Readings = append([]models.Reading(nil), m.sensor.Readings...)
	return s
}

// ID is the sensor id.
func (m *SensorModel) ID() string { return m.sensor.ID }

// Kind is the sensor kind.
func (m *SensorModel) Kind() models.SensorKind { return m.sensor.Kind }

// Last returns the most recent reading.
func (m *SensorModel) Last() (models.Reading, bool) { return m.sensor.Last() }

// Next computes the next value without recording it. The post-irrigation
// mode only affects moisture sensors.
func (m *SensorModel) Next(mode Mode, rnd Source) float64 {
	prev, ok := m.sensor.Last()
	v := Next(m.sensor.Kind, prev.Value, ok, mode, rnd)
	// absolute range may be narrower than the generator's clamp band
	return clamp(v, m.sensor.Absolute.Min, m.sensor.Absolute.Max)
}

// Record appends value as the newest reading.
func (m *SensorModel) Record(value float64, at time.Time) (models.Reading, error) {
	r, err := m.sensor.Append(value, at)
	if err != nil {
		return models.Reading{}, err
	}
	m.trim()
	return r, nil
}

func (m *SensorModel) trim() {
	if n := len(m.sensor.Readings); n > m.history {
		m.sensor.Readings = append([]models.Reading(nil), m.sensor.Readings[n-m.history:]...)
	}
}
