// Package publisher runs the daily almanac publish: shortly after local
// midnight it computes the new day's almanac, stores a snapshot, and logs
// special days loudly.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/hnminh/amlich-api/internal/database"
	"github.com/hnminh/amlich-api/internal/lunar"
)

// Publisher owns the cron scheduler for the daily publish job.
type Publisher struct {
	engine    *lunar.Engine
	db        *database.DB
	logger    *slog.Logger
	scheduler *gocron.Scheduler
	now       func() time.Time
}

// New creates a publisher. Call Start to schedule the job.
func New(engine *lunar.Engine, db *database.DB, logger *slog.Logger) *Publisher {
	return &Publisher{
		engine:    engine,
		db:        db,
		logger:    logger,
		scheduler: gocron.NewScheduler(engine.Location()),
		now:       time.Now,
	}
}

// Start publishes today's almanac immediately, then schedules the recurring
// job with the given cron expression.
func (p *Publisher) Start(ctx context.Context, cronExpr string) error {
	// Publish on startup so a fresh deployment has today's row without
	// waiting for the next cron tick.
	if err := p.PublishToday(ctx); err != nil {
		return fmt.Errorf("initial publish: %w", err)
	}

	_, err := p.scheduler.Cron(cronExpr).Do(func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := p.PublishToday(jobCtx); err != nil {
			p.logger.Error("scheduled almanac publish failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule publish job %q: %w", cronExpr, err)
	}

	p.scheduler.StartAsync()
	p.logger.Info("publisher started", slog.String("cron", cronExpr))
	return nil
}

// Stop halts the scheduler. Safe to call even if Start failed.
func (p *Publisher) Stop() {
	p.scheduler.Stop()
	p.logger.Info("publisher stopped")
}

// PublishToday computes and stores the almanac snapshot for the current
// civil day.
func (p *Publisher) PublishToday(ctx context.Context) error {
	return p.publish(ctx, p.engine.Today(p.now()))
}

func (p *Publisher) publish(ctx context.Context, day lunar.SolarDate) error {
	almanac, err := p.engine.Almanac(day)
	if err != nil {
		return fmt.Errorf("compute almanac for %s: %w", day, err)
	}

	if err := p.db.UpsertDay(ctx, database.FromAlmanac(almanac)); err != nil {
		return fmt.Errorf("store almanac for %s: %w", day, err)
	}

	attrs := []any{
		slog.String("solar", almanac.Solar.String()),
		slog.String("lunar", almanac.Lunar.String()),
		slog.String("day_label", almanac.DayLabel),
	}

	switch almanac.Special {
	case lunar.SpecialNewMoon:
		p.logger.Info("hôm nay là Mùng 1", attrs...)
	case lunar.SpecialFullMoon:
		p.logger.Info("hôm nay là Rằm", attrs...)
	default:
		p.logger.Debug("almanac published", attrs...)
	}

	return nil
}
