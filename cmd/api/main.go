package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/wealthpath/cadence/internal/config"
	"github.com/wealthpath/cadence/internal/handler"
	"github.com/wealthpath/cadence/internal/logger"
	"github.com/wealthpath/cadence/internal/repository"
	"github.com/wealthpath/cadence/internal/scheduler"
	"github.com/wealthpath/cadence/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Options{Env: cfg.Env, Level: cfg.LogLevel, Output: os.Stdout})
	slog.SetDefault(log)

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := repository.Migrate(context.Background(), db); err != nil {
		log.Error("Failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	scheduleRepo := repository.NewScheduleRepository(db)
	occurrenceRepo := repository.NewOccurrenceRepository(db)

	// Initialize services
	scheduleService := service.NewScheduleService(scheduleRepo, occurrenceRepo, service.ScheduleOptions{
		DefaultInterval: cfg.Schedules.Interval,
		DefaultCurrency: cfg.Schedules.Currency,
		PreviewCount:    cfg.Schedules.PreviewCount,
		MaxPreview:      cfg.Schedules.MaxPreview,
		HistoryLimit:    cfg.Schedules.HistoryLimit,
	})

	// Initialize and start the scheduler that records due runs
	deps := handler.RouterDeps{
		Schedules:      scheduleService,
		AllowedOrigins: cfg.AllowedOrigins,
	}
	var dueScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		dueScheduler = scheduler.New(scheduler.Config{
			Schedule: cfg.Scheduler.Schedule,
			Timeout:  cfg.Scheduler.Timeout,
			Enabled:  cfg.Scheduler.Enabled,
		}, scheduleService, log)
		if err := dueScheduler.Start(); err != nil {
			log.Error("Failed to start scheduler", slog.String("error", err.Error()))
			dueScheduler = nil
		} else {
			deps.Scheduler = dueScheduler
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.NewRouter(deps),
	}

	// Handle graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		// Stop scheduler first
		if dueScheduler != nil {
			select {
			case <-dueScheduler.Stop().Done():
				log.Info("Scheduler stopped")
			case <-ctx.Done():
				log.Warn("Scheduler did not stop before the shutdown timeout")
			}
		}

		if err := server.Shutdown(ctx); err != nil {
			log.Error("Server shutdown error", slog.String("error", err.Error()))
		}
	}()

	log.Info("Server starting", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	<-done
}
