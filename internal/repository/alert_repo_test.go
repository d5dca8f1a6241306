package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"farmtech_irrigation/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var alertColumns = []string{"id", "title", "message", "severity", "sensor_id", "occurred_at", "notified_count"}

func newAlertMock(t *testing.T) (*AlertSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewAlertSQLite(db), mock
}

func TestAlertAppend_WithSensorAndDefaults(t *testing.T) {
	t.Parallel()
	repo, mock := newAlertMock(t)

	sensor := "DHT22_01"
	mock.ExpectExec(regexp.QuoteMeta(insertAlertSQL)).
		WithArgs(sqlmock.AnyArg(), "Critical moisture", "low", "crítico", sensor, sqlmock.AnyArg(), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(ctx(t), models.Alert{
		Title: "Critical moisture", Message: "low",
		Severity: models.SeverityCritical, SensorID: &sensor,
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertAppend_NilSensorStoredAsNull(t *testing.T) {
	t.Parallel()
	repo, mock := newAlertMock(t)

	mock.ExpectExec(regexp.QuoteMeta(insertAlertSQL)).
		WithArgs("a-1", "t", "m", "médio", nil, sqlmock.AnyArg(), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Append(ctx(t), models.Alert{ID: "a-1", Title: "t", Message: "m", Severity: models.SeverityMedium}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertSetNotified(t *testing.T) {
	t.Parallel()
	repo, mock := newAlertMock(t)

	mock.ExpectExec(regexp.QuoteMeta(updateAlertNotifiedSQL)).
		WithArgs(3, "a-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetNotified(ctx(t), "a-1", 3); err != nil {
		t.Fatalf("SetNotified: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(updateAlertNotifiedSQL)).WillReturnError(errors.New("locked"))
	if err := repo.SetNotified(ctx(t), "a-2", 1); !IsStoreError(err) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}

func TestAlertRecent(t *testing.T) {
	t.Parallel()
	repo, mock := newAlertMock(t)

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(alertColumns).
		AddRow("a-2", "Critical pH", "pH 9", "crítico", "LDR_01", now, 2).
		AddRow("a-1", "Phosphorus missing", "P", "alto", nil, now.Add(-time.Minute), 0)

	mock.ExpectQuery(regexp.QuoteMeta(selectRecentAlertsSQL)).WithArgs(20).WillReturnRows(rows)

	got, err := repo.Recent(ctx(t), TimeRange{}, 20)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a-2" {
		t.Fatalf("unexpected alerts: %+v", got)
	}
	if got[0].SensorID == nil || *got[0].SensorID != "LDR_01" || got[0].NotifiedCount != 2 {
		t.Fatalf("first alert fields: %+v", got[0])
	}
	if got[1].SensorID != nil {
		t.Fatalf("expected nil sensor id, got %v", *got[1].SensorID)
	}
	if got[0].Severity != models.SeverityCritical {
		t.Fatalf("severity: got %q", got[0].Severity)
	}
}

func TestAlertRecent_UntilOnlyAndTieBreak(t *testing.T) {
	t.Parallel()
	repo, mock := newAlertMock(t)

	until := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	q := selectRecentAlertsSQL + " WHERE occurred_at <= ? " + recentAlertsOrderSQL
	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs(until, defaultLimit).
		WillReturnRows(sqlmock.NewRows(alertColumns))

	if _, err := repo.Recent(ctx(t), TimeRange{Until: until}, 0); err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertPruneBefore_Error(t *testing.T) {
	t.Parallel()
	repo, mock := newAlertMock(t)

	mock.ExpectExec(regexp.QuoteMeta(pruneAlertsSQL)).WillReturnError(errors.New("down"))
	if _, err := repo.PruneBefore(ctx(t), time.Now()); !IsStoreError(err) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}
