package repository

import (
	"context"
	"database/sql"
	"time"

	"farmtech_irrigation/internal/models"
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite { return &ReadingSQLite{db: db} }

var _ ReadingRepo = (*ReadingSQLite)(nil)

const (
	insertReadingSQL = `
		INSERT INTO sensor_readings (sensor_id, kind, value, unit, status, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectLatestReadingsSQL = `
		SELECT sensor_id, kind, value, unit, status, recorded_at
		FROM sensor_readings
	`
	latestReadingsOrderSQL = `ORDER BY recorded_at DESC, id DESC LIMIT ?`

	pruneReadingsSQL = `DELETE FROM sensor_readings WHERE recorded_at < ?`
)

// Append inserts one reading; each call is its own committed unit.
func (r *ReadingSQLite) Append(ctx context.Context, rd models.Reading) error {
	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		rd.SensorID,
		string(rd.Kind),
		rd.Value,
		rd.Unit,
		rd.Status,
		utcOrNow(rd.Timestamp),
	)
	return storeErr("append reading", err)
}

// Latest returns the newest limit readings of sensorID inside tr, oldest
// first.
func (r *ReadingSQLite) Latest(ctx context.Context, sensorID string, tr TimeRange, limit int) ([]models.Reading, error) {
	conds, args := tr.conditions("recorded_at", []string{"sensor_id = ?"}, []interface{}{sensorID})
	q := buildQuery(selectLatestReadingsSQL, conds, latestReadingsOrderSQL)
	args = append(args, normalizeLimit(limit))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("latest readings", err)
	}
	defer rows.Close()

	out := make([]models.Reading, 0, normalizeLimit(limit))
	for rows.Next() {
		var (
			rd     models.Reading
			kind   string
			status sql.NullString
		)
		if err := rows.Scan(&rd.SensorID, &kind, &rd.Value, &rd.Unit, &status, &rd.Timestamp); err != nil {
			return nil, storeErr("scan reading", err)
		}
		rd.Kind = models.SensorKind(kind)
		rd.Status = status.String
		rd.Timestamp = rd.Timestamp.UTC()
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("latest readings", err)
	}

	// query is newest first; callers want chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// PruneBefore deletes readings recorded before cutoff.
func (r *ReadingSQLite) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, pruneReadingsSQL, cutoff.UTC())
	if err != nil {
		return 0, storeErr("prune readings", err)
	}
	n, err := res.RowsAffected()
	return n, storeErr("prune readings", err)
}
