package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"farmtech_irrigation/internal/models"
	"farmtech_irrigation/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

var contactColumns = []string{"id", "name", "email", "phone", "active", "created_at"}

func newContactRepo(t *testing.T) (*repository.ContactSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewContactSQLite(db), mock
}

func TestContactSQLite_Active(t *testing.T) {
	repo, mock := newContactRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, phone, active, created_at FROM contacts WHERE active = 1 ORDER BY name")).
		WillReturnRows(sqlmock.NewRows(contactColumns).
			AddRow(2, "Ana", "ana@farm.test", nil, true, now).
			AddRow(1, "Bruno", "bruno@farm.test", "+55 11 9999", true, now))

	got, err := repo.Active(context.Background())
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Ana" || got[0].Phone != "" || got[1].Phone != "+55 11 9999" {
		t.Fatalf("unexpected contacts: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContactSQLite_ActiveEmpty(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectQuery("FROM contacts WHERE active = 1").WillReturnRows(sqlmock.NewRows(contactColumns))

	got, err := repo.Active(context.Background())
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no contacts, got %+v", got)
	}
}

func TestContactSQLite_Create(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contacts")).
		WithArgs("Ana", "ana@farm.test", nil, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(9, 1))

	id, err := repo.Create(context.Background(), models.Contact{Name: " Ana ", Email: "ana@farm.test"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id != 9 {
		t.Fatalf("id: got %d, want 9", id)
	}
}

func TestContactSQLite_Deactivate(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE contacts SET active = 0 WHERE id = ?")).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Deactivate(context.Background(), 4); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE contacts SET active = 0 WHERE id = ?")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Deactivate(context.Background(), 5); !errors.Is(err, repository.ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}

func TestContactSQLite_ListQueryError(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectQuery("FROM contacts ORDER BY name").WillReturnError(errors.New("no such table"))
	if _, err := repo.List(context.Background()); !repository.IsStoreError(err) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}
