package service

import (
	"context"
	"time"

	"farmtech_irrigation/internal/logger"
	"farmtech_irrigation/internal/models"
	"farmtech_irrigation/internal/notify"
	"farmtech_irrigation/internal/repository"

	"github.com/google/uuid"
)

// AlertService records alerts and hands them to the dispatcher.
type AlertService struct {
	alerts     repository.AlertRepo
	contacts   repository.ContactRepo
	dispatcher notify.Dispatcher
	metrics    *Metrics
	log        *logger.Logger
}

func NewAlertService(alerts repository.AlertRepo, contacts repository.ContactRepo, d notify.Dispatcher, m *Metrics, log *logger.Logger) *AlertService {
	if m == nil {
		m = NewMetrics(nil)
	}
	if log == nil {
		log = logger.Nop()
	}
	if d == nil {
		d = notify.NewLogDispatcher(log)
	}
	return &AlertService{alerts: alerts, contacts: contacts, dispatcher: d, metrics: m, log: log}
}

// Publish persists a and then notifies the active contacts. The alert counts
// as recorded once Append succeeds, whatever the delivery outcome. The
// returned alert carries its id and the number of contacts reached.
//
// When Append fails nothing is dispatched and the store error is returned.
func (s *AlertService) Publish(ctx context.Context, a models.Alert) (models.Alert, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	}
	a.NotifiedCount = 0

	if err := s.alerts.Append(ctx, a); err != nil {
		s.metrics.storeError("append alert")
		s.log.Errorw("alert_store_failed", "title", a.Title, "err", err)
		return a, err
	}
	s.metrics.Alerts.WithLabelValues(string(a.Severity)).Inc()
	s.log.Infow("alert_recorded", "alert_id", a.ID, "title", a.Title, "severity", string(a.Severity))

	contacts, err := s.contacts.Active(ctx)
	if err != nil {
		s.metrics.storeError("active contacts")
		s.log.Warnw("contacts_load_failed", "alert_id", a.ID, "err", err)
		contacts = nil
	}

	n, err := s.dispatcher.Notify(ctx, a, contacts)
	if n > len(contacts) {
		n = len(contacts)
	}
	if err != nil {
		s.metrics.DispatchFailures.Inc()
		s.log.Warnw("alert_dispatch_failed", "alert_id", a.ID, "delivered", n, "err", err)
	}
	s.metrics.Notifications.Add(float64(n))
	a.NotifiedCount = n

	if err := s.alerts.SetNotified(ctx, a.ID, n); err != nil {
		s.metrics.storeError("set alert notified")
		s.log.Warnw("alert_notified_update_failed", "alert_id", a.ID, "err", err)
	}
	return a, nil
}
