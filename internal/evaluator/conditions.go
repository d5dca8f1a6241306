package evaluator

import (
	"strings"

	"farmtech_irrigation/internal/models"
)

// Irrigation trigger thresholds.
const (
	MoistureLowThreshold = 40.0
	PHIdealMin           = 5.5
	PHIdealMax           = 7.5
)

// Conditions are the predicates the irrigation decision is made from.
type Conditions struct {
	MoistureLow bool `json:"moisture_low"`
	PHOk        bool `json:"ph_ok"`
	NutrientsOk bool `json:"nutrients_ok"`
}

// ShouldIrrigate is true only when every predicate holds.
func (c Conditions) ShouldIrrigate() bool {
	return c.MoistureLow && c.PHOk && c.NutrientsOk
}

// Summary renders the predicate checklist shown on the dashboard.
func (c Conditions) Summary() string {
	parts := []string{
		check(c.MoistureLow, "moisture low", "moisture ok"),
		check(c.PHOk, "pH ideal", "pH out of range"),
		check(c.NutrientsOk, "nutrients present", "nutrients missing"),
	}
	return strings.Join(parts, " | ")
}

func check(ok bool, yes, no string) string {
	if ok {
		return "[x] " + yes
	}
	return "[ ] " + no
}

// Evaluate maps a snapshot to its predicates. A missing sensor fails its predicate.
func Evaluate(s models.Snapshot) Conditions {
	var c Conditions
	if m, ok := s.Value(models.KindMoisture); ok {
		c.MoistureLow = m < MoistureLowThreshold
	}
	if ph, ok := s.Value(models.KindPH); ok {
		c.PHOk = ph >= PHIdealMin && ph <= PHIdealMax
	}
	c.NutrientsOk = s.Present(models.KindPhosphorus) && s.Present(models.KindPotassium)
	return c
}
