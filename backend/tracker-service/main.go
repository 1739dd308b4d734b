package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/config"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/handlers"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/logging"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/repositories"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/seed"
	"github.com/yolmane/fintech-project-manager/backend/tracker-service/services"
)

func main() {
	envFile := flag.String("env", ".env", "path to the .env file")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading %s: %v", *envFile, err)
	}
	cfg := config.LoadTrackerConfig()

	logging.InitLogger(logging.Options{SystemName: "tracker-service", File: cfg.LogFile, Level: cfg.LogLevel})
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Tracker Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := repositories.OpenSnapshotStore(ctx, cfg, logging.Logger)
	if err != nil {
		logging.Logger.Fatalf("Event ID: STORE_OPEN_FAILED, Description: %v", err)
	}
	defer store.Close(context.Background())

	opts := []services.Option{services.WithSnapshotKey(cfg.SnapshotKey)}
	graph, err := repositories.OpenDependencyGraph(ctx, cfg, logging.Logger)
	if err != nil {
		logging.Logger.Warnf("Event ID: GRAPH_UNAVAILABLE, Description: Dependency graph disabled: %v", err)
	} else if graph != nil {
		defer graph.Close(context.Background())
		opts = append(opts, services.WithDependencyMirror(graph))
	}

	manager := services.NewProjectManager(store, opts...)
	if err := manager.Load(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: SNAPSHOT_LOAD_FAILED, Description: %v", err)
	}

	seedData := seed.Demo
	if cfg.SeedFile != "" {
		if seedData, err = os.ReadFile(cfg.SeedFile); err != nil {
			logging.Logger.Fatalf("Event ID: SEED_READ_FAILED, Description: %v", err)
		}
	}
	if _, err := manager.SeedFromYAML(ctx, seedData); err != nil {
		logging.Logger.Errorf("Event ID: SEED_FAILED, Description: %v", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(manager, handlers.RouterOptions{CORSOrigin: cfg.CORSOrigin}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_ERROR, Description: %v", err)
	}
	logging.Logger.Info("Event ID: SERVICE_STOPPED, Description: Tracker Service stopped")
}
