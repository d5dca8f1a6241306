package simulation

import (
	"time"

	"farmtech_irrigation/internal/models"
)

// Mode tells the moisture model whether the field was just watered.
type Mode int

const (
	ModeNormal Mode = iota
	ModePostIrrigation
)

func (m Mode) String() string {
	if m == ModePostIrrigation {
		return "post_irrigation"
	}
	return "normal"
}

// DefaultCooldown is the window after an irrigation event during which
// moisture stays elevated and re-triggering is suppressed.
const DefaultCooldown = 2 * time.Minute

// Clock detects the post-irrigation cool-down.
type Clock struct {
	Window time.Duration
}

// NewClock returns a clock with the given window, falling back to DefaultCooldown.
func NewClock(window time.Duration) Clock {
	if window <= 0 {
		window = DefaultCooldown
	}
	return Clock{Window: window}
}

// Mode returns ModePostIrrigation when last happened less than Window before now.
func (c Clock) Mode(last *models.IrrigationEvent, now time.Time) Mode {
	if last == nil {
		return ModeNormal
	}
	if InWindow(last.OccurredAt, now, c.Window) {
		return ModePostIrrigation
	}
	return ModeNormal
}

// InWindow reports whether at lies less than window before now. Stamps up
// to window ahead of now (clock skew between processes) count as inside;
// anything further ahead is outside.
func InWindow(at, now time.Time, window time.Duration) bool {
	if at.IsZero() {
		return false
	}
	d := now.Sub(at)
	return d < window && d >= -window
}

// Horizon is the latest event stamp InWindow still accepts at now. Lookups
// of the last irrigation event are bounded by it so a far-future row cannot
// shadow real events.
func Horizon(now time.Time, window time.Duration) time.Time {
	return now.Add(window)
}
