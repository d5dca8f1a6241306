package repository

import (
	"context"
	"database/sql"

	"farmtech_irrigation/internal/models"

	"github.com/google/uuid"
)

type IrrigationSQLite struct {
	db *sql.DB
}

func NewIrrigationSQLite(db *sql.DB) *IrrigationSQLite { return &IrrigationSQLite{db: db} }

var _ IrrigationRepo = (*IrrigationSQLite)(nil)

const (
	insertIrrigationSQL = `
		INSERT INTO irrigation_events (id, occurred_at, reason, duration_minutes)
		VALUES (?, ?, ?, ?)
	`

	selectRecentIrrigationSQL = `
		SELECT id, occurred_at, reason, duration_minutes
		FROM irrigation_events
	`
	recentIrrigationOrderSQL = `ORDER BY occurred_at DESC, rowid DESC LIMIT ?`
)

// Append inserts an event. If ID or OccurredAt are empty, they're set.
func (r *IrrigationSQLite) Append(ctx context.Context, e models.IrrigationEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, insertIrrigationSQL,
		e.ID,
		utcOrNow(e.OccurredAt),
		e.Reason,
		e.DurationMinutes,
	)
	return storeErr("append irrigation event", err)
}

// Recent returns events inside tr ordered by timestamp descending.
func (r *IrrigationSQLite) Recent(ctx context.Context, tr TimeRange, limit int) ([]models.IrrigationEvent, error) {
	conds, args := tr.conditions("occurred_at", nil, nil)
	q := buildQuery(selectRecentIrrigationSQL, conds, recentIrrigationOrderSQL)
	args = append(args, normalizeLimit(limit))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("recent irrigation events", err)
	}
	defer rows.Close()

	out := make([]models.IrrigationEvent, 0, 8)
	for rows.Next() {
		var (
			e        models.IrrigationEvent
			duration sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.OccurredAt, &e.Reason, &duration); err != nil {
			return nil, storeErr("scan irrigation event", err)
		}
		e.OccurredAt = e.OccurredAt.UTC()
		e.DurationMinutes = int(duration.Int64)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("recent irrigation events", err)
	}
	return out, nil
}
