package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"farmtech_irrigation/internal/config"
	"farmtech_irrigation/internal/logger"
	"farmtech_irrigation/internal/notify"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DB: config.DB{Path: filepath.Join(t.TempDir(), "farmtech.db")},
		Simulation: config.Simulation{
			DashboardInterval: time.Second,
			DaemonInterval:    time.Second,
			Cooldown:          2 * time.Minute,
			History:           24,
			DurationMinutes:   15,
			Seed:              7,
		},
		Notify: config.Notify{Driver: "log"},
		Sensors: []config.SensorDef{
			{ID: "DHT22_01", Kind: "moisture", Unit: "%", IdealMin: 40, IdealMax: 80, AbsoluteMin: 0, AbsoluteMax: 100},
			{ID: "LDR_01", Kind: "ph", Unit: "pH", IdealMin: 5.5, IdealMax: 7.5, AbsoluteMin: 0, AbsoluteMax: 14},
			{ID: "BTN_FOSFORO", Kind: "phosphorus", IdealMin: 1, IdealMax: 1, AbsoluteMin: 0, AbsoluteMax: 1},
			{ID: "BTN_POTASSIO", Kind: "potassium", IdealMin: 1, IdealMax: 1, AbsoluteMin: 0, AbsoluteMax: 1},
		},
	}
}

func TestNew_TickPersistsAndRestores(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	a, err := New(ctx, cfg, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	res, err := a.Services.Simulator.Tick(ctx, now)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(res.Snapshot.Readings) != 4 {
		t.Fatalf("snapshot readings = %d, want 4", len(res.Snapshot.Readings))
	}
	a.Close()

	b, err := New(ctx, cfg, logger.Nop())
	if err != nil {
		t.Fatalf("New (reopen): %v", err)
	}
	defer b.Close()
	for _, sn := range b.Services.Simulator.Sensors() {
		if len(sn.Readings) != 1 {
			t.Fatalf("sensor %s restored %d readings, want 1", sn.ID, len(sn.Readings))
		}
	}
	st, err := b.Services.Monitoring.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if len(st.Snapshot.Readings) != 4 {
		t.Fatalf("restored snapshot readings = %d, want 4", len(st.Snapshot.Readings))
	}
}

func TestNewDispatcher_DefaultsToLog(t *testing.T) {
	d, err := newDispatcher(context.Background(), config.Notify{Driver: "log"}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.(*notify.LogDispatcher); !ok {
		t.Fatalf("dispatcher = %T, want *notify.LogDispatcher", d)
	}
}

func TestSimulatorOptions(t *testing.T) {
	c := testConfig(t).Simulation
	c.Retention = time.Hour
	c.PruneEvery = 10
	o := SimulatorOptions(c)
	if o.Cooldown != c.Cooldown || o.History != c.History || o.DurationMinutes != 15 ||
		o.Retention != time.Hour || o.PruneEvery != 10 || o.Seed != 7 {
		t.Fatalf("options = %+v", o)
	}
}
