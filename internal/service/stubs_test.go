package service

import (
	"context"
	"time"

	"farmtech_irrigation/internal/models"
	"farmtech_irrigation/internal/repository"
)

// ---- Test doubles ----

// stubLimit mirrors the SQLite default of 50 rows for limit <= 0.
func stubLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}

type readingRepoStub struct {
	appended  []models.Reading
	appendErr error
	prior     map[string][]models.Reading
	latestErr error
	cutoffs   []time.Time
}

func (r *readingRepoStub) Append(_ context.Context, rd models.Reading) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.appended = append(r.appended, rd)
	return nil
}

func (r *readingRepoStub) Latest(_ context.Context, sensorID string, tr repository.TimeRange, limit int) ([]models.Reading, error) {
	if r.latestErr != nil {
		return nil, r.latestErr
	}
	var out []models.Reading
	for _, rd := range r.prior[sensorID] {
		if tr.Contains(rd.Timestamp) {
			out = append(out, rd)
		}
	}
	for _, rd := range r.appended {
		if rd.SensorID == sensorID && tr.Contains(rd.Timestamp) {
			out = append(out, rd)
		}
	}
	if limit = stubLimit(limit); len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *readingRepoStub) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoffs = append(r.cutoffs, cutoff)
	return 0, nil
}

type alertRepoStub struct {
	appended  []models.Alert
	appendErr error
	notified  map[string]int
	cutoffs   []time.Time
}

func (a *alertRepoStub) Append(_ context.Context, al models.Alert) error {
	if a.appendErr != nil {
		return a.appendErr
	}
	a.appended = append(a.appended, al)
	return nil
}

func (a *alertRepoStub) SetNotified(_ context.Context, id string, count int) error {
	if a.notified == nil {
		a.notified = map[string]int{}
	}
	a.notified[id] = count
	return nil
}

func (a *alertRepoStub) Recent(_ context.Context, tr repository.TimeRange, limit int) ([]models.Alert, error) {
	out := make([]models.Alert, 0, len(a.appended))
	for i := len(a.appended) - 1; i >= 0; i-- {
		if tr.Contains(a.appended[i].OccurredAt) {
			out = append(out, a.appended[i])
		}
	}
	if limit = stubLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a *alertRepoStub) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	a.cutoffs = append(a.cutoffs, cutoff)
	return 0, nil
}

type irrigationRepoStub struct {
	events    []models.IrrigationEvent
	appendErr error
	recentErr error
}

func (i *irrigationRepoStub) Append(_ context.Context, e models.IrrigationEvent) error {
	if i.appendErr != nil {
		return i.appendErr
	}
	i.events = append(i.events, e)
	return nil
}

func (i *irrigationRepoStub) Recent(_ context.Context, tr repository.TimeRange, limit int) ([]models.IrrigationEvent, error) {
	if i.recentErr != nil {
		return nil, i.recentErr
	}
	out := make([]models.IrrigationEvent, 0, len(i.events))
	for k := len(i.events) - 1; k >= 0; k-- {
		if tr.Contains(i.events[k].OccurredAt) {
			out = append(out, i.events[k])
		}
	}
	if limit = stubLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type contactRepoStub struct {
	contacts  []models.Contact
	activeErr error
	nextID    int
}

func (c *contactRepoStub) Active(context.Context) ([]models.Contact, error) {
	if c.activeErr != nil {
		return nil, c.activeErr
	}
	var out []models.Contact
	for _, ct := range c.contacts {
		if ct.Active {
			out = append(out, ct)
		}
	}
	return out, nil
}

func (c *contactRepoStub) List(context.Context) ([]models.Contact, error) { return c.contacts, nil }

func (c *contactRepoStub) Create(_ context.Context, ct models.Contact) (int, error) {
	c.nextID++
	ct.ID = c.nextID
	c.contacts = append(c.contacts, ct)
	return ct.ID, nil
}

func (c *contactRepoStub) Deactivate(_ context.Context, id int) error {
	for k := range c.contacts {
		if c.contacts[k].ID == id {
			c.contacts[k].Active = false
			return nil
		}
	}
	return repository.ErrContactNotFound
}

type dispatcherStub struct {
	calls  int
	report int // when >= 0 overrides the returned count
	err    error
}

func (d *dispatcherStub) Notify(_ context.Context, _ models.Alert, contacts []models.Contact) (int, error) {
	d.calls++
	if d.report >= 0 {
		return d.report, d.err
	}
	return len(contacts), d.err
}

type fixture struct {
	readings   *readingRepoStub
	alerts     *alertRepoStub
	irrigation *irrigationRepoStub
	contacts   *contactRepoStub
	dispatcher *dispatcherStub
	repos      *repository.Repository
}

func newFixture() *fixture {
	f := &fixture{
		readings:   &readingRepoStub{},
		alerts:     &alertRepoStub{},
		irrigation: &irrigationRepoStub{},
		contacts:   &contactRepoStub{},
		dispatcher: &dispatcherStub{report: -1},
	}
	f.repos = &repository.Repository{
		Readings:   f.readings,
		Alerts:     f.alerts,
		Irrigation: f.irrigation,
		Contacts:   f.contacts,
	}
	return f
}

func (f *fixture) simulator(opts SimulatorOptions, m *Metrics) *SimulatorService {
	alerts := NewAlertService(f.alerts, f.contacts, f.dispatcher, m, nil)
	ctrl := NewIrrigationController(f.irrigation, opts.Cooldown, opts.DurationMinutes, m, nil)
	return NewSimulatorService(testSensors(), f.repos, alerts, ctrl, opts, m, nil)
}

func testSensors() []models.Sensor {
	return []models.Sensor{
		{ID: "DHT22_01", Kind: models.KindMoisture, Unit: "%",
			Ideal: models.Range{Min: 40, Max: 80}, Absolute: models.Range{Min: 0, Max: 100}},
		{ID: "LDR_01", Kind: models.KindPH, Unit: "pH",
			Ideal: models.Range{Min: 5.5, Max: 7.5}, Absolute: models.Range{Min: 0, Max: 14}},
		{ID: "BTN_FOSFORO", Kind: models.KindPhosphorus, Unit: "present/absent",
			Ideal: models.Range{Min: 1, Max: 1}, Absolute: models.Range{Min: 0, Max: 1}},
		{ID: "BTN_POTASSIO", Kind: models.KindPotassium, Unit: "present/absent",
			Ideal: models.Range{Min: 1, Max: 1}, Absolute: models.Range{Min: 0, Max: 1}},
	}
}

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func snapshot(at time.Time, moisture, ph, p, k float64) models.Snapshot {
	return models.NewSnapshot(at,
		models.Reading{SensorID: "DHT22_01", Kind: models.KindMoisture, Value: moisture},
		models.Reading{SensorID: "LDR_01", Kind: models.KindPH, Value: ph},
		models.Reading{SensorID: "BTN_FOSFORO", Kind: models.KindPhosphorus, Value: p},
		models.Reading{SensorID: "BTN_POTASSIO", Kind: models.KindPotassium, Value: k},
	)
}
