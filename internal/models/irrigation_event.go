package models

import "time"

// IrrigationEvent records one automatic irrigation activation.
type IrrigationEvent struct {
	ID              string    `json:"id"`
	OccurredAt      time.Time `json:"occurred_at"`
	Reason          string    `json:"reason"`
	DurationMinutes int       `json:"duration_minutes"`
}
