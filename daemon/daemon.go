package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	robin "github.com/ringo380/robin-sub007"
	"github.com/ringo380/robin-sub007/bus"
	"github.com/ringo380/robin-sub007/event"
)

// Daemon owns a fully wired Robin engine: the tree system, the event
// system, the in-memory bus, optional persisted history, and the cron
// scheduler.
type Daemon struct {
	cfg    ConfigFile
	logger *slog.Logger

	trees     *robin.System
	events    *event.System
	bus       *bus.MemBus
	store     *bus.SQLiteEventStore
	scheduler *Scheduler
}

// New assembles a daemon from a loaded config. Call Run to start the
// frame loop and Close to release resources.
func New(cfg ConfigFile, logger *slog.Logger) (*Daemon, error) {
	if logger == nil {
		logger = slog.Default()
	}

	trees := robin.NewSystem(cfg.Engine)
	trees.SetLogger(logger)

	events := event.NewSystem()
	events.SetLogger(logger)
	if cfg.Events.UpdateBudgetMS > 0 {
		events.SetBudget(time.Duration(cfg.Events.UpdateBudgetMS) * time.Millisecond)
	}

	memBus := bus.NewMemBus(bus.MemBusConfig{})
	events.AttachBus(memBus)

	d := &Daemon{
		cfg:    cfg,
		logger: logger,
		trees:  trees,
		events: events,
		bus:    memBus,
	}

	if cfg.History.Enabled {
		store, err := bus.NewSQLiteEventStore(bus.SQLiteStoreConfig{
			DSN:            cfg.History.Path,
			RetentionCount: cfg.History.RetentionCount,
		})
		if err != nil {
			return nil, fmt.Errorf("daemon: open event history: %w", err)
		}
		d.store = store
	}

	scheduler, err := NewScheduler(events, cfg.Schedules, time.Now())
	if err != nil {
		return nil, fmt.Errorf("daemon: compile schedules: %w", err)
	}
	d.scheduler = scheduler

	return d, nil
}

// Trees returns the behavior tree system for registration.
func (d *Daemon) Trees() *robin.System { return d.trees }

// Events returns the event system for handler registration.
func (d *Daemon) Events() *event.System { return d.events }

// Bus returns the in-memory event bus for subscriptions.
func (d *Daemon) Bus() *bus.MemBus { return d.bus }

// Store returns the persisted history store, or nil when disabled.
func (d *Daemon) Store() *bus.SQLiteEventStore { return d.store }

// Run drives the engine at the configured tick rate until the context
// is cancelled. Each frame advances the scheduler, ticks every active
// tree, and dispatches queued events.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.trees.Initialize(); err != nil {
		return fmt.Errorf("daemon: initialize trees: %w", err)
	}
	if err := d.events.Initialize(); err != nil {
		return fmt.Errorf("daemon: initialize events: %w", err)
	}

	if d.store != nil {
		sub := d.bus.SubscribeAll()
		go bus.NewStoreSubscriber(d.store, d.logger).Run(ctx, sub)
	}

	rate := d.cfg.Engine.TickRate
	if rate <= 0 {
		rate = 60
	}
	interval := time.Duration(float64(time.Second) / rate)

	d.logger.Info("daemon running",
		"tick_rate", rate,
		"schedules", len(d.cfg.Schedules),
		"history", d.cfg.History.Enabled)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopping", "reason", ctx.Err())
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			d.scheduler.Advance(now)
			d.trees.Update(dt)
			if err := d.events.Update(); err != nil {
				d.logger.Error("event dispatch errors", "error", err)
			}
		}
	}
}

// Close shuts both systems down and releases the bus and history store.
func (d *Daemon) Close() error {
	d.trees.Shutdown()
	d.events.Shutdown()
	err := d.bus.Close()
	if d.store != nil {
		if cerr := d.store.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
