// Package main is the entry point for the lunar calendar API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hnminh/amlich-api/internal/api"
	"github.com/hnminh/amlich-api/internal/config"
	"github.com/hnminh/amlich-api/internal/database"
	"github.com/hnminh/amlich-api/internal/logger"
	"github.com/hnminh/amlich-api/internal/lunar"
	"github.com/hnminh/amlich-api/internal/publisher"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	log.Info("starting amlich API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.Float64("tz_offset_hours", cfg.TzOffsetHours),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the snapshot store and bring the schema up to date
	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// The conversion engine caches per-year month tables as they are used
	engine := lunar.NewEngine(cfg.TzOffsetHours)

	// Daily almanac publisher
	pub := publisher.New(engine, db, log)
	if err := pub.Start(ctx, cfg.PublishCron); err != nil {
		return fmt.Errorf("start publisher: %w", err)
	}
	defer pub.Stop()

	// HTTP server
	handlers := api.NewHandlers(engine, db, cfg, log)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.SetupRoutes(handlers, cfg, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}
