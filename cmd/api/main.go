package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cineradar/cinepoint-sync/internal/api"
	"github.com/cineradar/cinepoint-sync/internal/bootstrap"
	"github.com/cineradar/cinepoint-sync/internal/logger"
	"github.com/cineradar/cinepoint-sync/internal/scheduler"
	"github.com/cineradar/cinepoint-sync/internal/service"
)

func main() {
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")

	// cancelled on shutdown; aborts background syncs
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	app, err := bootstrap.New(appCtx, configPath, "cinepoint-api")
	if err != nil {
		logger.Error("Failed to initialize: %v", err)
		os.Exit(1)
	}
	defer app.Close()
	log := app.Logger
	cfg := app.Config

	runner := service.NewSyncRunner(app.Orchestrator, app.DailyOptions())

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(runner, cfg.Scheduler.Cron, cfg.Sync.Location(), log)
		if err != nil {
			log.WithError(err).Error("Failed to create scheduler")
			return
		}
		sched.Start()
	}

	// Setup router
	router := api.SetupRouter(api.Deps{
		Ctx:    appCtx,
		Store:  app.Store,
		Runner: runner,
		Logger: log,
	}, cfg.Server)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Failed to start server")
			cancelApp()
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-appCtx.Done():
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Abort running syncs; they still record their sync log row
	cancelApp()
	if sched != nil {
		sched.Stop()
	}
	runner.Wait()

	log.Info("Server exited")
}
