package models

import "time"

// Severity values are stored verbatim as the dashboard displays them.
type Severity string

const (
	SeverityMedium   Severity = "médio"
	SeverityHigh     Severity = "alto"
	SeverityCritical Severity = "crítico"
)

// Alert is an append-only alert record.
type Alert struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Severity      Severity  `json:"severity"`
	SensorID      *string   `json:"sensor_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	NotifiedCount int       `json:"notified_count"`
}
