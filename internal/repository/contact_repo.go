package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"farmtech_irrigation/internal/models"
)

type ContactSQLite struct {
	db *sql.DB
}

func NewContactSQLite(db *sql.DB) *ContactSQLite { return &ContactSQLite{db: db} }

var _ ContactRepo = (*ContactSQLite)(nil)

const (
	insertContactSQL = `
		INSERT INTO contacts (name, email, phone, active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	selectContactsSQL       = `SELECT id, name, email, phone, active, created_at FROM contacts`
	deactivateContactSQL    = `UPDATE contacts SET active = 0 WHERE id = ?`
	orderContactsByNameSQL  = ` ORDER BY name`
	activeContactsFilterSQL = ` WHERE active = 1`
)

// Active returns contacts eligible for notifications, ordered by name.
func (r *ContactSQLite) Active(ctx context.Context) ([]models.Contact, error) {
	return r.query(ctx, "active contacts", selectContactsSQL+activeContactsFilterSQL+orderContactsByNameSQL)
}

// List returns every contact, active or not.
func (r *ContactSQLite) List(ctx context.Context) ([]models.Contact, error) {
	return r.query(ctx, "list contacts", selectContactsSQL+orderContactsByNameSQL)
}

func (r *ContactSQLite) query(ctx context.Context, op, q string) ([]models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []models.Contact
	for rows.Next() {
		var (
			c     models.Contact
			phone sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &phone, &c.Active, &c.CreatedAt); err != nil {
			return nil, storeErr(op, err)
		}
		c.Phone = phone.String
		c.CreatedAt = c.CreatedAt.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

// Create inserts a new active contact and returns its ID.
func (r *ContactSQLite) Create(ctx context.Context, c models.Contact) (int, error) {
	var phone sql.NullString
	if p := strings.TrimSpace(c.Phone); p != "" {
		phone = sql.NullString{String: p, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, insertContactSQL,
		strings.TrimSpace(c.Name),
		strings.TrimSpace(c.Email),
		phone,
		true,
		utcOrNow(c.CreatedAt),
	)
	if err != nil {
		return 0, storeErr("create contact", fmt.Errorf("insert %q: %w", c.Email, err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr("create contact", err)
	}
	return int(id), nil
}

// Deactivate stops a contact from receiving notifications.
func (r *ContactSQLite) Deactivate(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deactivateContactSQL, id)
	if err != nil {
		return storeErr("deactivate contact", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("deactivate contact", err)
	}
	if n == 0 {
		return ErrContactNotFound
	}
	return nil
}
