package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"farmtech_irrigation/internal/models"
)

// TimeRange bounds a query on a record's timestamp, both ends inclusive.
// A zero Since or Until leaves that end open.
type TimeRange struct {
	Since time.Time
	Until time.Time
}

// Contains reports whether t lies inside the range.
func (tr TimeRange) Contains(t time.Time) bool {
	if !tr.Since.IsZero() && t.Before(tr.Since) {
		return false
	}
	if !tr.Until.IsZero() && t.After(tr.Until) {
		return false
	}
	return true
}

// conditions appends the range bounds on column to conds and args.
func (tr TimeRange) conditions(column string, conds []string, args []interface{}) ([]string, []interface{}) {
	if !tr.Since.IsZero() {
		conds = append(conds, column+" >= ?")
		args = append(args, tr.Since.UTC())
	}
	if !tr.Until.IsZero() {
		conds = append(conds, column+" <= ?")
		args = append(args, tr.Until.UTC())
	}
	return conds, args
}

// buildQuery joins base, the WHERE conditions and tail.
func buildQuery(base string, conds []string, tail string) string {
	q := base
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	return q + " " + tail
}

type ReadingRepo interface {
	Append(ctx context.Context, r models.Reading) error
	// Latest returns up to limit readings for sensorID inside tr, the newest
	// ones, in chronological order.
	Latest(ctx context.Context, sensorID string, tr TimeRange, limit int) ([]models.Reading, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type AlertRepo interface {
	Append(ctx context.Context, a models.Alert) error
	SetNotified(ctx context.Context, id string, count int) error
	// Recent returns up to limit alerts inside tr, newest first.
	Recent(ctx context.Context, tr TimeRange, limit int) ([]models.Alert, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type IrrigationRepo interface {
	Append(ctx context.Context, e models.IrrigationEvent) error
	// Recent returns up to limit events inside tr, newest first.
	Recent(ctx context.Context, tr TimeRange, limit int) ([]models.IrrigationEvent, error)
}

type ContactRepo interface {
	Active(ctx context.Context) ([]models.Contact, error)
	List(ctx context.Context) ([]models.Contact, error)
	Create(ctx context.Context, c models.Contact) (int, error)
	Deactivate(ctx context.Context, id int) error
}

type Repository struct {
	Readings   ReadingRepo
	Alerts     AlertRepo
	Irrigation IrrigationRepo
	Contacts   ContactRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Readings:   NewReadingSQLite(db),
		Alerts:     NewAlertSQLite(db),
		Irrigation: NewIrrigationSQLite(db),
		Contacts:   NewContactSQLite(db),
	}
}

const defaultLimit = 50

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

func utcOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
