// Command simulator runs the tick loop on its own, without the HTTP API.
// Dashboards read what it writes from the same SQLite file.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmtech_irrigation/internal/app"
	"farmtech_irrigation/internal/config"
	"farmtech_irrigation/internal/logger"
)

func main() {
	configPath := flag.String("config", "configs", "config directory or file")
	interval := flag.Duration("interval", 0, "tick interval (default simulation.daemon_interval)")
	once := flag.Bool("once", false, "run a single tick and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.GetWithOptions(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	defer func() { _ = log.Sync() }()

	if *interval <= 0 {
		*interval = cfg.Simulation.DaemonInterval
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Errorw("startup_failed", "err", err)
		_ = log.Sync()
		os.Exit(1)
	}
	defer a.Close()

	if *once {
		res, err := a.Services.Simulator.Tick(ctx, time.Now().UTC())
		if err != nil {
			log.Errorw("tick_failed", "err", err)
			return
		}
		log.Infow("tick_done",
			"tick_id", res.ID,
			"summary", res.Summary,
			"alerts", len(res.Alerts),
			"dispatched", res.Dispatched,
			"irrigated", res.Irrigation != nil,
		)
		return
	}

	a.Services.Simulator.Run(ctx, *interval)
}
