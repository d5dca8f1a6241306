package evaluator

import (
	"fmt"
	"time"

	"farmtech_irrigation/internal/models"
)

// Alert thresholds.
const (
	MoistureCritical = 30.0
	MoistureHigh     = 85.0
	PHCriticalMin    = 5.0
	PHCriticalMax    = 8.0
)

// Alert titles.
const (
	TitleCriticalMoisture  = "Critical moisture"
	TitleLowMoisture       = "Low moisture"
	TitleHighMoisture      = "High moisture"
	TitleCriticalPH        = "Critical pH"
	TitleOutOfRangePH      = "Out-of-range pH"
	TitlePhosphorusMissing = "Phosphorus missing"
	TitlePotassiumMissing  = "Potassium missing"
)

// Alerts evaluates every rule against s. Rules are independent, so several
// alerts can fire for one snapshot; within the moisture rows and within the
// pH rows at most one fires. Nothing is deduplicated across calls.
func Alerts(s models.Snapshot) []models.Alert {
	var out []models.Alert
	at := s.TakenAt

	if m, ok := s.Value(models.KindMoisture); ok {
		id := s.SensorID(models.KindMoisture)
		switch {
		case m < MoistureCritical:
			out = append(out, newAlert(TitleCriticalMoisture,
				fmt.Sprintf("Moisture very low: %.1f%% - irrigation urgently required", m),
				models.SeverityCritical, id, at))
		case m < MoistureLowThreshold:
			out = append(out, newAlert(TitleLowMoisture,
				fmt.Sprintf("Moisture below ideal: %.1f%% - consider irrigating", m),
				models.SeverityHigh, id, at))
		case m > MoistureHigh:
			out = append(out, newAlert(TitleHighMoisture,
				fmt.Sprintf("Moisture above ideal: %.1f%% - disease risk", m),
				models.SeverityHigh, id, at))
		}
	}

	if ph, ok := s.Value(models.KindPH); ok {
		id := s.SensorID(models.KindPH)
		switch {
		case ph < PHCriticalMin || ph > PHCriticalMax:
			out = append(out, newAlert(TitleCriticalPH,
				fmt.Sprintf("pH outside safe range: %.2f - urgent correction required", ph),
				models.SeverityCritical, id, at))
		case ph < PHIdealMin || ph > PHIdealMax:
			out = append(out, newAlert(TitleOutOfRangePH,
				fmt.Sprintf("pH outside ideal range: %.2f - correction recommended", ph),
				models.SeverityMedium, id, at))
		}
	}

	if _, ok := s.Value(models.KindPhosphorus); ok && !s.Present(models.KindPhosphorus) {
		out = append(out, newAlert(TitlePhosphorusMissing,
			"Phosphorus not detected - fertilizer application required",
			models.SeverityHigh, s.SensorID(models.KindPhosphorus), at))
	}
	if _, ok := s.Value(models.KindPotassium); ok && !s.Present(models.KindPotassium) {
		out = append(out, newAlert(TitlePotassiumMissing,
			"Potassium not detected - fertilizer application required",
			models.SeverityHigh, s.SensorID(models.KindPotassium), at))
	}
	return out
}

func newAlert(title, msg string, sev models.Severity, sensorID string, at time.Time) models.Alert {
	a := models.Alert{Title: title, Message: msg, Severity: sev, OccurredAt: at}
	if sensorID != "" {
		id := sensorID
		a.SensorID = &id
	}
	return a
}
