package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"farmtech_irrigation/internal/evaluator"
	"farmtech_irrigation/internal/logger"
	"farmtech_irrigation/internal/models"
	"farmtech_irrigation/internal/repository"
	"farmtech_irrigation/internal/simulation"

	"github.com/google/uuid"
)

// SimulatorOptions tunes the tick loop. Zero values fall back to defaults.
type SimulatorOptions struct {
	Cooldown        time.Duration
	History         int
	DurationMinutes int
	// Retention and PruneEvery drive housekeeping: every PruneEvery ticks,
	// readings and alerts older than Retention are deleted. PruneEvery 0
	// disables it.
	Retention  time.Duration
	PruneEvery int
	// Seed 0 seeds from the wall clock.
	Seed int64
}

// TickResult is everything one tick produced.
type TickResult struct {
	ID         string                  `json:"id"`
	Mode       string                  `json:"mode"`
	Snapshot   models.Snapshot         `json:"snapshot"`
	Conditions evaluator.Conditions    `json:"conditions"`
	Summary    string                  `json:"summary"`
	Alerts     []models.Alert          `json:"alerts"`
	Dispatched int                     `json:"dispatched"`
	Irrigation *models.IrrigationEvent `json:"irrigation,omitempty"`
}

// SimulatorService owns the sensor models and runs simulate, evaluate and
// persist for each tick. Ticks are serialized: the background loop and an
// on-demand Tick never overlap.
type SimulatorService struct {
	readings   repository.ReadingRepo
	alertRepo  repository.AlertRepo
	irrigation repository.IrrigationRepo
	alerts     *AlertService
	controller *IrrigationController
	clock      simulation.Clock
	opts       SimulatorOptions
	metrics    *Metrics
	log        *logger.Logger

	mu      sync.Mutex
	defs    []models.Sensor
	sensors []*simulation.SensorModel
	rnd     *rand.Rand
	ticks   int
}

func NewSimulatorService(
	defs []models.Sensor,
	repos *repository.Repository,
	alerts *AlertService,
	controller *IrrigationController,
	opts SimulatorOptions,
	m *Metrics,
	log *logger.Logger,
) *SimulatorService {
	if opts.History <= 0 {
		opts.History = simulation.DefaultHistory
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = simulation.DefaultCooldown
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if m == nil {
		m = NewMetrics(nil)
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &SimulatorService{
		readings:   repos.Readings,
		alertRepo:  repos.Alerts,
		irrigation: repos.Irrigation,
		alerts:     alerts,
		controller: controller,
		clock:      simulation.NewClock(opts.Cooldown),
		opts:       opts,
		metrics:    m,
		log:        log,
		defs:       append([]models.Sensor(nil), defs...),
		rnd:        rand.New(rand.NewSource(seed)),
	}
	for _, d := range s.defs {
		s.sensors = append(s.sensors, simulation.NewSensorModel(d, nil, opts.History))
	}
	return s
}

// Restore rebuilds every sensor model from its last persisted readings and
// seeds the controller with the latest irrigation event. A store failure
// leaves that sensor with an empty history, so defaults are used.
func (s *SimulatorService) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, d := range s.defs {
		prior, err := s.readings.Latest(ctx, d.ID, repository.TimeRange{}, s.opts.History)
		if err != nil {
			s.metrics.storeError("latest readings")
			s.log.Warnw("restore_readings_failed", "sensor_id", d.ID, "err", err)
			prior = nil
		}
		s.sensors[i] = simulation.NewSensorModel(d, prior, s.opts.History)
		s.log.Debugw("sensor_restored", "sensor_id", d.ID, "readings", len(s.sensors[i].Sensor().Readings))
	}
	s.controller.Observe(s.lastIrrigation(ctx, time.Now().UTC()))
}

// Sensors returns copies of the current models.
func (s *SimulatorService) Sensors() []models.Sensor {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Sensor, 0, len(s.sensors))
	for _, m := range s.sensors {
		out = append(out, m.Sensor())
	}
	return out
}

// Run ticks at the given interval until ctx is canceled. Cancellation only
// prevents the next tick from starting.
func (s *SimulatorService) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	s.log.Infow("simulator_started", "interval", interval.String(), "sensors", len(s.defs))
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("simulator_stopped", "ticks", s.tickCount())
			return
		case now := <-t.C:
			if _, err := s.Tick(ctx, now.UTC()); err != nil {
				s.log.Warnw("tick_skipped", "err", err)
			}
		}
	}
}

// Tick runs one full cycle at now. It only fails when ctx is already done
// before the tick starts; once started a tick runs to completion and store
// failures are logged and absorbed.
func (s *SimulatorService) Tick(ctx context.Context, now time.Time) (TickResult, error) {
	if err := ctx.Err(); err != nil {
		return TickResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	now = now.UTC()
	tickID := uuid.NewString()
	log := s.log.With("tick_id", tickID)

	last := s.lastIrrigation(ctx, now)
	if fired := s.controller.LastFired(); last == nil || fired.After(last.OccurredAt) {
		if !fired.IsZero() {
			last = &models.IrrigationEvent{OccurredAt: fired}
		}
	}
	mode := s.clock.Mode(last, now)

	readings := make([]models.Reading, 0, len(s.sensors))
	for _, m := range s.sensors {
		r, err := m.Record(m.Next(mode, s.rnd), now)
		if err != nil {
			log.Errorw("reading_rejected", "sensor_id", m.ID(), "err", err)
			continue
		}
		readings = append(readings, r)
		s.metrics.Readings.WithLabelValues(string(r.Kind)).Inc()
		s.metrics.LastReading.WithLabelValues(r.SensorID).Set(r.Value)

		if err := s.readings.Append(ctx, r); err != nil {
			s.metrics.storeError("append reading")
			log.Errorw("tick_store_failed", "sensor_id", r.SensorID, "err", err)
		}
	}

	res := s.evaluate(ctx, models.NewSnapshot(now, readings...), now, last, log)
	res.ID = tickID
	res.Mode = mode.String()

	s.ticks++
	s.metrics.Ticks.Inc()
	if s.opts.PruneEvery > 0 && s.ticks%s.opts.PruneEvery == 0 {
		s.prune(ctx, now, log)
	}
	log.Debugw("tick_completed", "mode", res.Mode, "alerts", len(res.Alerts), "irrigated", res.Irrigation != nil)
	return res, nil
}

// Evaluate runs the conditions, alert rules and irrigation decision against
// a snapshot without simulating new readings.
func (s *SimulatorService) Evaluate(ctx context.Context, snap models.Snapshot, now time.Time) TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	now = now.UTC()
	return s.evaluate(ctx, snap, now, s.lastIrrigation(ctx, now), s.log)
}

func (s *SimulatorService) evaluate(ctx context.Context, snap models.Snapshot, now time.Time, last *models.IrrigationEvent, log *logger.Logger) TickResult {
	cond := evaluator.Evaluate(snap)
	res := TickResult{Snapshot: snap, Conditions: cond, Summary: cond.Summary()}

	for _, a := range evaluator.Alerts(snap) {
		rec, err := s.alerts.Publish(ctx, a)
		if err != nil {
			continue
		}
		res.Alerts = append(res.Alerts, rec)
		res.Dispatched += rec.NotifiedCount
	}

	ev, err := s.controller.Decide(ctx, cond, snap, last, now)
	if err != nil {
		log.Warnw("irrigation_decision_dropped", "err", err)
	}
	res.Irrigation = ev
	return res
}

// lastIrrigation returns the newest event no further ahead of now than the
// cool-down window allows.
func (s *SimulatorService) lastIrrigation(ctx context.Context, now time.Time) *models.IrrigationEvent {
	tr := repository.TimeRange{Until: simulation.Horizon(now, s.clock.Window)}
	evs, err := s.irrigation.Recent(ctx, tr, 1)
	if err != nil {
		s.metrics.storeError("recent irrigation events")
		s.log.Warnw("irrigation_history_failed", "err", err)
		return nil
	}
	if len(evs) == 0 {
		return nil
	}
	return &evs[0]
}

func (s *SimulatorService) prune(ctx context.Context, now time.Time, log *logger.Logger) {
	if s.opts.Retention <= 0 {
		return
	}
	cutoff := now.Add(-s.opts.Retention)
	nr, err := s.readings.PruneBefore(ctx, cutoff)
	if err != nil {
		s.metrics.storeError("prune readings")
		log.Warnw("prune_failed", "table", "sensor_readings", "err", err)
	}
	na, err := s.alertRepo.PruneBefore(ctx, cutoff)
	if err != nil {
		s.metrics.storeError("prune alerts")
		log.Warnw("prune_failed", "table", "alerts", "err", err)
	}
	log.Infow("history_pruned", "cutoff", cutoff, "readings", nr, "alerts", na)
}

func (s *SimulatorService) tickCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}
