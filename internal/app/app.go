// Package app wires configuration into a ready-to-run service graph. Both
// the HTTP server and the standalone daemon start from here.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"farmtech_irrigation/internal/config"
	"farmtech_irrigation/internal/logger"
	"farmtech_irrigation/internal/notify"
	"farmtech_irrigation/internal/repository"
	"farmtech_irrigation/internal/repository/db"
	"farmtech_irrigation/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds the wired services and everything that must be released on exit.
type App struct {
	Services *service.Service
	Registry *prometheus.Registry

	db      *sql.DB
	log     *logger.Logger
	closers []func()
}

// New opens the store, picks the dispatcher and restores sensor history.
// ctx bounds the MQTT connection lifetime.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}
	a := &App{db: conn, log: log, Registry: newRegistry()}

	repos := repository.NewRepository(conn)
	if cfg.Influx.Enabled() {
		w, closeFn := repository.NewInfluxWriter(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
		repos.Readings = repository.NewInfluxMirror(repos.Readings, w, log)
		a.closers = append(a.closers, closeFn)
		log.Infow("influx_mirror_enabled", "url", cfg.Influx.URL, "bucket", cfg.Influx.Bucket)
	}

	dispatcher, err := newDispatcher(ctx, cfg.Notify, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Services = service.NewService(service.Deps{
		Repos:      repos,
		Dispatcher: dispatcher,
		Sensors:    cfg.SensorDefinitions(),
		Options:    SimulatorOptions(cfg.Simulation),
		Metrics:    service.NewMetrics(a.Registry),
		Log:        log,
	})
	a.Services.Simulator.Restore(ctx)
	return a, nil
}

// SimulatorOptions maps the simulation config section onto the tick loop.
func SimulatorOptions(c config.Simulation) service.SimulatorOptions {
	return service.SimulatorOptions{
		Cooldown:        c.Cooldown,
		History:         c.History,
		DurationMinutes: c.DurationMinutes,
		Retention:       c.Retention,
		PruneEvery:      c.PruneEvery,
		Seed:            c.Seed,
	}
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newDispatcher(ctx context.Context, cfg config.Notify, log *logger.Logger) (notify.Dispatcher, error) {
	switch cfg.Driver {
	case "mqtt":
		client, err := notify.Connect(ctx, cfg.MQTT, log)
		if err != nil {
			return nil, err
		}
		return notify.NewMQTTDispatcher(client, cfg.MQTT.TopicPrefix, log), nil
	default:
		return notify.NewLogDispatcher(log), nil
	}
}

// Close releases the InfluxDB client and the database.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	if err := a.db.Close(); err != nil {
		a.log.Errorw("failed to close sqlite", "err", err)
	}
}
