package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"farmtech_irrigation/internal/evaluator"
	"farmtech_irrigation/internal/logger"
	"farmtech_irrigation/internal/models"
	"farmtech_irrigation/internal/repository"
	"farmtech_irrigation/internal/simulation"

	"github.com/google/uuid"
)

// IrrigationState is the controller's implicit state.
type IrrigationState string

const (
	StateIdle       IrrigationState = "idle"
	StateIrrigating IrrigationState = "irrigating"
)

const DefaultIrrigationMinutes = 15

// IrrigationController fires at most one irrigation event per cool-down
// window. The last successful fire is kept in memory as well, so a failed
// history read cannot produce a second event inside the window.
type IrrigationController struct {
	repo     repository.IrrigationRepo
	window   time.Duration
	duration int
	metrics  *Metrics
	log      *logger.Logger

	mu        sync.Mutex
	lastFired time.Time
}

func NewIrrigationController(repo repository.IrrigationRepo, window time.Duration, durationMinutes int, m *Metrics, log *logger.Logger) *IrrigationController {
	if window <= 0 {
		window = simulation.DefaultCooldown
	}
	if durationMinutes <= 0 {
		durationMinutes = DefaultIrrigationMinutes
	}
	if m == nil {
		m = NewMetrics(nil)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &IrrigationController{repo: repo, window: window, duration: durationMinutes, metrics: m, log: log}
}

// Observe folds a persisted event into the in-memory last-fire time. Events
// written by another process are picked up this way.
func (c *IrrigationController) Observe(ev *models.IrrigationEvent) {
	if ev == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev.OccurredAt.After(c.lastFired) {
		c.lastFired = ev.OccurredAt
	}
}

// LastFired is the most recent activation known to the controller.
func (c *IrrigationController) LastFired() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFired
}

// State is Irrigating while now is inside the window after the last fire.
func (c *IrrigationController) State(now time.Time) IrrigationState {
	if simulation.InWindow(c.LastFired(), now, c.window) {
		return StateIrrigating
	}
	return StateIdle
}

// Decide writes an irrigation event when every condition holds and no event
// happened within the window. It returns the written event, or nil when
// nothing fired. A write failure drops the decision and leaves the
// controller eligible for the next tick.
func (c *IrrigationController) Decide(ctx context.Context, cond evaluator.Conditions, snap models.Snapshot, last *models.IrrigationEvent, now time.Time) (*models.IrrigationEvent, error) {
	if !cond.ShouldIrrigate() {
		return nil, nil
	}
	if last != nil && last.OccurredAt.After(simulation.Horizon(now, c.window)) {
		c.log.Warnw("irrigation_event_in_future", "event_id", last.ID, "occurred_at", last.OccurredAt)
	} else {
		c.Observe(last)
	}
	if c.State(now) == StateIrrigating {
		c.log.Debugw("irrigation_cooldown", "last_fired", c.LastFired())
		return nil, nil
	}

	ev := models.IrrigationEvent{
		ID:              uuid.NewString(),
		OccurredAt:      now.UTC(),
		Reason:          irrigationReason(snap),
		DurationMinutes: c.duration,
	}
	if err := c.repo.Append(ctx, ev); err != nil {
		c.metrics.storeError("append irrigation event")
		c.log.Errorw("irrigation_store_failed", "event_id", ev.ID, "err", err)
		return nil, err
	}

	c.Observe(&ev)
	c.metrics.Irrigations.Inc()
	c.log.Infow("irrigation_triggered", "event_id", ev.ID, "reason", ev.Reason, "duration_minutes", ev.DurationMinutes)
	return &ev, nil
}

func irrigationReason(s models.Snapshot) string {
	m, _ := s.Value(models.KindMoisture)
	ph, _ := s.Value(models.KindPH)
	return fmt.Sprintf("Low moisture (%.1f%%), ideal pH (%.2f), nutrients OK", m, ph)
}
