package service

import (
	"context"
	"time"

	"farmtech_irrigation/internal/evaluator"
	"farmtech_irrigation/internal/models"
	"farmtech_irrigation/internal/repository"
	"farmtech_irrigation/internal/simulation"

	"github.com/patrickmn/go-cache"
)

const (
	stateCacheKey        = "dashboard_state"
	stateCacheTTL        = time.Second
	stateCacheCleanupInt = time.Minute
)

// DashboardState is what the dashboard polls: the latest committed reading
// per sensor and what the core would decide from them.
type DashboardState struct {
	UpdatedAt      time.Time               `json:"updated_at"`
	Sensors        []models.Sensor         `json:"sensors"`
	Snapshot       models.Snapshot         `json:"snapshot"`
	Conditions     evaluator.Conditions    `json:"conditions"`
	Summary        string                  `json:"summary"`
	Irrigation     IrrigationState         `json:"irrigation"`
	LastIrrigation *models.IrrigationEvent `json:"last_irrigation,omitempty"`
	ActiveContacts int                     `json:"active_contacts"`
}

// MonitoringService reads state back from the store, the same way any
// other reader process would. Results are cached briefly so several
// dashboard clients polling at once cost one round of queries.
type MonitoringService struct {
	defs       []models.Sensor
	readings   repository.ReadingRepo
	irrigation repository.IrrigationRepo
	contacts   repository.ContactRepo
	window     time.Duration
	cache      *cache.Cache
	now        func() time.Time
}

func NewMonitoringService(defs []models.Sensor, repos *repository.Repository, window time.Duration) *MonitoringService {
	if window <= 0 {
		window = simulation.DefaultCooldown
	}
	return &MonitoringService{
		defs:       append([]models.Sensor(nil), defs...),
		readings:   repos.Readings,
		irrigation: repos.Irrigation,
		contacts:   repos.Contacts,
		window:     window,
		cache:      cache.New(stateCacheTTL, stateCacheCleanupInt),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetState returns the dashboard state. Sensors without any stored reading
// are listed with no readings and count as missing in the snapshot.
func (s *MonitoringService) GetState(ctx context.Context) (DashboardState, error) {
	if v, ok := s.cache.Get(stateCacheKey); ok {
		return v.(DashboardState), nil
	}

	now := s.now()
	st := DashboardState{UpdatedAt: now, Sensors: make([]models.Sensor, 0, len(s.defs))}

	var latest []models.Reading
	for _, d := range s.defs {
		rs, err := s.readings.Latest(ctx, d.ID, repository.TimeRange{}, 1)
		if err != nil {
			return DashboardState{}, err
		}
		d.Readings = rs
		st.Sensors = append(st.Sensors, d)
		latest = append(latest, rs...)
	}
	st.Snapshot = models.NewSnapshot(now, latest...)
	st.Conditions = evaluator.Evaluate(st.Snapshot)
	st.Summary = st.Conditions.Summary()

	evs, err := s.irrigation.Recent(ctx, repository.TimeRange{Until: simulation.Horizon(now, s.window)}, 1)
	if err != nil {
		return DashboardState{}, err
	}
	st.Irrigation = StateIdle
	if len(evs) > 0 {
		st.LastIrrigation = &evs[0]
		if simulation.InWindow(evs[0].OccurredAt, now, s.window) {
			st.Irrigation = StateIrrigating
		}
	}

	active, err := s.contacts.Active(ctx)
	if err != nil {
		return DashboardState{}, err
	}
	st.ActiveContacts = len(active)

	s.cache.Set(stateCacheKey, st, cache.DefaultExpiration)
	return st, nil
}

// Invalidate drops the cached state, e.g. after an on-demand tick.
func (s *MonitoringService) Invalidate() {
	s.cache.Delete(stateCacheKey)
}
