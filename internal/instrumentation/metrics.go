package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrProvider = "provider"
	attrStatus   = "status"
	attrResult   = "result"
)

// Status values for fetch and hold-event metrics.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics provides methods for recording retrieval metrics. The zero value
// is a no-op recorder, used when instrumentation is disabled.
type Metrics struct {
	fetchesTotal    metric.Int64Counter
	fetchDuration   metric.Float64Histogram
	eventsRetrieved metric.Int64Counter

	tokenRefreshTotal metric.Int64Counter
	holdEventsTotal   metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all instruments registered on
// the meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.fetchesTotal, err = meter.Int64Counter(
		"calendar_fetches_total",
		metric.WithDescription("Total number of calendar fetch operations"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_fetches_total counter: %w", err)
	}

	m.fetchDuration, err = meter.Float64Histogram(
		"calendar_fetch_duration_seconds",
		metric.WithDescription("Calendar fetch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_fetch_duration_seconds histogram: %w", err)
	}

	m.eventsRetrieved, err = meter.Int64Counter(
		"calendar_events_retrieved_total",
		metric.WithDescription("Total number of events returned by calendar fetches"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_events_retrieved_total counter: %w", err)
	}

	m.tokenRefreshTotal, err = meter.Int64Counter(
		"oauth_token_refresh_total",
		metric.WithDescription("Total number of OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_refresh_total counter: %w", err)
	}

	m.holdEventsTotal, err = meter.Int64Counter(
		"hold_events_created_total",
		metric.WithDescription("Total number of hold events written to calendars"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create hold_events_created_total counter: %w", err)
	}

	return m, nil
}

// RecordFetch records one calendar fetch with its provider, outcome, event
// count, and duration.
func (m *Metrics) RecordFetch(ctx context.Context, provider, status string, events int, duration time.Duration) {
	if m.fetchesTotal == nil || m.fetchDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrProvider, provider),
		attribute.String(attrStatus, status),
	}

	m.fetchesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.fetchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if status == StatusSuccess && events > 0 {
		m.eventsRetrieved.Add(ctx, int64(events), metric.WithAttributes(
			attribute.String(attrProvider, provider),
		))
	}
}

// RecordTokenRefresh records an OAuth token refresh attempt.
// Result should be one of: "success", "failure".
func (m *Metrics) RecordTokenRefresh(ctx context.Context, provider, result string) {
	if m.tokenRefreshTotal == nil {
		return
	}

	m.tokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrProvider, provider),
		attribute.String(attrResult, result),
	))
}

// RecordHoldEvent records a hold-event write attempt.
func (m *Metrics) RecordHoldEvent(ctx context.Context, provider, status string) {
	if m.holdEventsTotal == nil {
		return
	}

	m.holdEventsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrProvider, provider),
		attribute.String(attrStatus, status),
	))
}
