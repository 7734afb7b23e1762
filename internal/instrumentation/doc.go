// Package instrumentation provides OpenTelemetry metrics for calendar
// retrieval and hold-event creation.
//
// The CLI is short-lived, so metrics are collected in-process and flushed
// to stderr on shutdown when metrics are enabled. All recording methods
// are safe to call on a disabled provider; they become no-ops.
//
// # Metrics
//
//   - calendar_fetches_total: Counter of calendar fetch operations by provider and status
//   - calendar_fetch_duration_seconds: Histogram of calendar fetch durations
//   - calendar_events_retrieved_total: Counter of events returned by fetches
//   - oauth_token_refresh_total: Counter of token refresh attempts by provider and result
//   - hold_events_created_total: Counter of hold events written by provider and status
package instrumentation
