// Package otel bridges Robin observers to OpenTelemetry metrics.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	robin "github.com/ringo380/robin-sub007"
	"github.com/ringo380/robin-sub007/event"
)

// TickMetrics translates behavior tree tick activity into OpenTelemetry
// metrics. It records counters and histograms for tree ticks, deferrals,
// and update pass durations.
type TickMetrics struct {
	treeTicks      metric.Int64Counter
	treesDeferred  metric.Int64Counter
	tickDuration   metric.Float64Histogram
	updateDuration metric.Float64Histogram
}

// NewTickMetrics creates a TickMetrics that uses the given meter to create
// instruments for recording tree scheduling metrics.
func NewTickMetrics(meter metric.Meter) (*TickMetrics, error) {
	ticks, err := meter.Int64Counter("robin.tree.ticks",
		metric.WithDescription("Number of tree root ticks"),
	)
	if err != nil {
		return nil, err
	}

	deferred, err := meter.Int64Counter("robin.tree.deferred",
		metric.WithDescription("Number of trees deferred by the update budget"),
	)
	if err != nil {
		return nil, err
	}

	tickDur, err := meter.Float64Histogram("robin.tree.tick.duration",
		metric.WithDescription("Duration of a single tree tick in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	updateDur, err := meter.Float64Histogram("robin.update.duration",
		metric.WithDescription("Duration of a full update pass in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &TickMetrics{
		treeTicks:      ticks,
		treesDeferred:  deferred,
		tickDuration:   tickDur,
		updateDuration: updateDur,
	}, nil
}

// TreeTicked increments the tick counter and records the tick duration.
func (m *TickMetrics) TreeTicked(treeID, treeName string, status robin.Status, elapsed time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("tree_id", treeID),
		attribute.String("tree_name", treeName),
		attribute.String("status", status.String()),
	)
	m.treeTicks.Add(ctx, 1, attrs)
	m.tickDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// UpdateCompleted records the update pass duration and any deferred trees.
func (m *TickMetrics) UpdateCompleted(ticked, deferred int, elapsed time.Duration) {
	ctx := context.Background()
	m.updateDuration.Record(ctx, elapsed.Seconds())
	if deferred > 0 {
		m.treesDeferred.Add(ctx, int64(deferred))
	}
}

// EventMetrics translates event dispatch activity into OpenTelemetry
// metrics.
type EventMetrics struct {
	eventsProcessed metric.Int64Counter
	handlerFailures metric.Int64Counter
	budgetExceeded  metric.Int64Counter
	dispatchDur     metric.Float64Histogram
}

// NewEventMetrics creates an EventMetrics that uses the given meter to
// create instruments for recording event dispatch metrics.
func NewEventMetrics(meter metric.Meter) (*EventMetrics, error) {
	processed, err := meter.Int64Counter("robin.event.processed",
		metric.WithDescription("Number of events dispatched"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("robin.event.handler.failures",
		metric.WithDescription("Number of handler or trigger action failures"),
	)
	if err != nil {
		return nil, err
	}

	exceeded, err := meter.Int64Counter("robin.event.budget.exceeded",
		metric.WithDescription("Number of update passes that ran out of budget"),
	)
	if err != nil {
		return nil, err
	}

	dispatchDur, err := meter.Float64Histogram("robin.event.update.duration",
		metric.WithDescription("Duration of an event update pass in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &EventMetrics{
		eventsProcessed: processed,
		handlerFailures: failures,
		budgetExceeded:  exceeded,
		dispatchDur:     dispatchDur,
	}, nil
}

// EventProcessed increments the processed counter for the event.
func (m *EventMetrics) EventProcessed(name string, priority event.Priority, handlersRun int) {
	attrs := metric.WithAttributes(
		attribute.String("event", name),
		attribute.String("priority", priority.String()),
	)
	m.eventsProcessed.Add(context.Background(), 1, attrs)
}

// HandlerFailed increments the failure counter.
func (m *EventMetrics) HandlerFailed(name string) {
	m.handlerFailures.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("event", name)))
}

// UpdateCompleted records the dispatch pass duration.
func (m *EventMetrics) UpdateCompleted(processed int, elapsed time.Duration, budgetExceeded bool) {
	ctx := context.Background()
	m.dispatchDur.Record(ctx, elapsed.Seconds())
	if budgetExceeded {
		m.budgetExceeded.Add(ctx, 1)
	}
}

// Compile-time interface checks.
var (
	_ robin.TickObserver = (*TickMetrics)(nil)
	_ event.Observer     = (*EventMetrics)(nil)
)
