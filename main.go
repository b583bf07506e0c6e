package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"path-planner/logger"
	"path-planner/logger/console"
	"path-planner/mapio"
	"path-planner/store"
)

func main() {
	loadEnv()

	logger.Init(console.New(console.Params{
		Debug: getEnvBool("DEBUG", false),
	}))

	cfg, err := loadSettings()
	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	occ, err := mapio.LoadFile(cfg.MapFile, cfg.Graph.OccupancyThreshold)
	if err != nil {
		logger.Fatal("Failed to load map", "err", err)
	}
	if cfg.KeepOutDir != "" {
		zones, err := mapio.LoadKeepOutZones(cfg.KeepOutDir)
		if err != nil {
			logger.Fatal("Failed to load keep-out zones", "err", err)
		}
		tr, err := mapio.ForMap(occ, cfg.Resolution)
		if err != nil {
			logger.Fatal("Invalid map transform", "err", err)
		}
		occ = mapio.ApplyKeepOut(occ, zones, tr)
	}

	var plans *store.Store
	if cfg.DatabaseDSN != "" {
		plans, err = store.Open(cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("Failed to open plan store", "err", err)
		}
		defer plans.Close()
	}

	svc, err := newService(occ, cfg, plans)
	if err != nil {
		logger.Fatal("Failed to create service", "err", err)
	}
	if err := svc.loadOrBuild(); err != nil {
		logger.Fatal("Failed to prepare roadmap", "err", err)
	}

	app := newApp(svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("Server starting", "port", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})
	eg.Go(func() error {
		<-egCtx.Done()
		logger.Info("Shutting down")
		return app.Shutdown()
	})

	if err := eg.Wait(); err != nil {
		logger.Error("Server stopped", "err", err)
	}
}
