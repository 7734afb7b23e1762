// Package google implements the calendar provider for Google Calendar on
// top of the official API client (google.golang.org/api/calendar/v3).
//
// Google imposes no meaningful ceiling on concurrent event-retrieval
// requests, so Concurrency reports 0 and the orchestrator fans out
// unbounded for this platform.
package google
