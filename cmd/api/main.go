package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"paynex/internal/shared/config"
	"paynex/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		shutdownTelemetry(ctx)
		return err
	}
	defer deps.Close()

	srv := newServers(SetupRoutes(deps, cfg), cfg)
	srv.start()

	stop, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	srv.shutdown(shutdownTelemetry, 30*time.Second)
	return nil
}
