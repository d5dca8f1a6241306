package handlers

import (
	"context"
	"sync"
	"time"

	"farmtech_irrigation/internal/models"
	"farmtech_irrigation/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// ---- Service Mocks ----

type mockSimulator struct {
	result    service.TickResult
	err       error
	tickCalls int
}

func (m *mockSimulator) Restore(context.Context)            {}
func (m *mockSimulator) Run(context.Context, time.Duration) {}
func (m *mockSimulator) Sensors() []models.Sensor           { return nil }
func (m *mockSimulator) Tick(_ context.Context, _ time.Time) (service.TickResult, error) {
	m.tickCalls++
	return m.result, m.err
}

type mockMonitoring struct {
	mu          sync.Mutex
	state       service.DashboardState
	err         error
	invalidated int
}

func (m *mockMonitoring) GetState(context.Context) (service.DashboardState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.err
}

func (m *mockMonitoring) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
}

func (m *mockMonitoring) setState(st service.DashboardState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
}

type mockHistory struct {
	readings   []models.Reading
	alerts     []models.Alert
	events     []models.IrrigationEvent
	err        error
	lastSensor string
	lastFilter service.HistoryFilter
}

func (m *mockHistory) SensorReadings(_ context.Context, id string, f service.HistoryFilter) ([]models.Reading, error) {
	m.lastSensor = id
	m.lastFilter = f
	return m.readings, m.err
}
func (m *mockHistory) RecentAlerts(_ context.Context, f service.HistoryFilter) ([]models.Alert, error) {
	m.lastFilter = f
	return m.alerts, m.err
}
func (m *mockHistory) RecentIrrigation(_ context.Context, f service.HistoryFilter) ([]models.IrrigationEvent, error) {
	m.lastFilter = f
	return m.events, m.err
}

type mockContacts struct {
	list       []models.Contact
	created    models.Contact
	err        error
	lastInput  service.ContactInput
	lastDeact  int
	deactCalls int
}

func (m *mockContacts) ListContacts(context.Context) ([]models.Contact, error) { return m.list, m.err }
func (m *mockContacts) AddContact(_ context.Context, in service.ContactInput) (models.Contact, error) {
	m.lastInput = in
	return m.created, m.err
}
func (m *mockContacts) DeactivateContact(_ context.Context, id int) error {
	m.deactCalls++
	m.lastDeact = id
	return m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, prometheus.NewRegistry())
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
