package service

import (
	"context"
	"time"

	"farmtech_irrigation/internal/logger"
	"farmtech_irrigation/internal/models"
	"farmtech_irrigation/internal/notify"
	"farmtech_irrigation/internal/repository"
)

// Simulator runs the tick loop and exposes single ticks on demand.
// Stop Run via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Restore(ctx context.Context)
	Run(ctx context.Context, interval time.Duration)
	Tick(ctx context.Context, now time.Time) (TickResult, error)
	Sensors() []models.Sensor
}

// Monitoring exposes the read-only dashboard state.
type Monitoring interface {
	GetState(ctx context.Context) (DashboardState, error)
	Invalidate()
}

// History exposes append-only records with filtering.
type History interface {
	SensorReadings(ctx context.Context, sensorID string, f HistoryFilter) ([]models.Reading, error)
	RecentAlerts(ctx context.Context, f HistoryFilter) ([]models.Alert, error)
	RecentIrrigation(ctx context.Context, f HistoryFilter) ([]models.IrrigationEvent, error)
}

// Contacts manages who receives alert notifications.
type Contacts interface {
	ListContacts(ctx context.Context) ([]models.Contact, error)
	AddContact(ctx context.Context, in ContactInput) (models.Contact, error)
	DeactivateContact(ctx context.Context, id int) error
}

// Service aggregates all sub-services.
type Service struct {
	Simulator
	Monitoring
	History
	Contacts
}

// Deps is what NewService wires together.
type Deps struct {
	Repos      *repository.Repository
	Dispatcher notify.Dispatcher
	Sensors    []models.Sensor
	Options    SimulatorOptions
	Metrics    *Metrics
	Log        *logger.Logger
}

func NewService(d Deps) *Service {
	if d.Metrics == nil {
		d.Metrics = NewMetrics(nil)
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	alerts := NewAlertService(d.Repos.Alerts, d.Repos.Contacts, d.Dispatcher, d.Metrics, d.Log)
	controller := NewIrrigationController(d.Repos.Irrigation, d.Options.Cooldown, d.Options.DurationMinutes, d.Metrics, d.Log)
	return &Service{
		Simulator:  NewSimulatorService(d.Sensors, d.Repos, alerts, controller, d.Options, d.Metrics, d.Log),
		Monitoring: NewMonitoringService(d.Sensors, d.Repos, d.Options.Cooldown),
		History:    NewHistoryService(d.Sensors, d.Repos),
		Contacts:   NewContactService(d.Repos.Contacts),
	}
}
