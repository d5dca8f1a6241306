package repository

import (
	"context"
	"database/sql"
	"time"

	"farmtech_irrigation/internal/models"

	"github.com/google/uuid"
)

type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite { return &AlertSQLite{db: db} }

var _ AlertRepo = (*AlertSQLite)(nil)

const (
	insertAlertSQL = `
		INSERT INTO alerts (id, title, message, severity, sensor_id, occurred_at, notified_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	updateAlertNotifiedSQL = `UPDATE alerts SET notified_count = ? WHERE id = ?`

	selectRecentAlertsSQL = `
		SELECT id, title, message, severity, sensor_id, occurred_at, notified_count
		FROM alerts
	`
	// alerts of one tick share occurred_at; rowid keeps insertion order
	recentAlertsOrderSQL = `ORDER BY occurred_at DESC, rowid DESC LIMIT ?`

	pruneAlertsSQL = `DELETE FROM alerts WHERE occurred_at < ?`
)

// Append inserts an alert. The caller is expected to set ID so it can refer
// to the row afterwards; a missing ID is generated.
func (r *AlertSQLite) Append(ctx context.Context, a models.Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	var sensorID sql.NullString
	if a.SensorID != nil {
		sensorID = sql.NullString{String: *a.SensorID, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, insertAlertSQL,
		a.ID,
		a.Title,
		a.Message,
		string(a.Severity),
		sensorID,
		utcOrNow(a.OccurredAt),
		a.NotifiedCount,
	)
	return storeErr("append alert", err)
}

// SetNotified records how many contacts an alert was dispatched to.
func (r *AlertSQLite) SetNotified(ctx context.Context, id string, count int) error {
	_, err := r.db.ExecContext(ctx, updateAlertNotifiedSQL, count, id)
	return storeErr("set alert notified", err)
}

// Recent returns the newest alerts inside tr first.
func (r *AlertSQLite) Recent(ctx context.Context, tr TimeRange, limit int) ([]models.Alert, error) {
	conds, args := tr.conditions("occurred_at", nil, nil)
	q := buildQuery(selectRecentAlertsSQL, conds, recentAlertsOrderSQL)
	args = append(args, normalizeLimit(limit))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("recent alerts", err)
	}
	defer rows.Close()

	out := make([]models.Alert, 0, 16)
	for rows.Next() {
		var (
			a        models.Alert
			severity string
			sensorID sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &severity, &sensorID, &a.OccurredAt, &a.NotifiedCount); err != nil {
			return nil, storeErr("scan alert", err)
		}
		a.Severity = models.Severity(severity)
		if sensorID.Valid {
			s := sensorID.String
			a.SensorID = &s
		}
		a.OccurredAt = a.OccurredAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("recent alerts", err)
	}
	return out, nil
}

// PruneBefore deletes alerts raised before cutoff.
func (r *AlertSQLite) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, pruneAlertsSQL, cutoff.UTC())
	if err != nil {
		return 0, storeErr("prune alerts", err)
	}
	n, err := res.RowsAffected()
	return n, storeErr("prune alerts", err)
}
