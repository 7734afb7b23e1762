// Package provider defines the calendar-provider capability consumed by the
// retrieval orchestrator and the hold-event scheduler.
//
// Each supported platform (Google Calendar, Microsoft Outlook) implements
// the Provider interface once; everything above it is generic over the
// interface, so no call site branches on the platform.
package provider
