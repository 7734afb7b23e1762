// Package retrieve fans calendar event fetches out across accounts and
// calendars with per-platform admission control.
//
// Every (account, calendar) pair becomes one fetch. Fetches for the same
// platform share a weighted semaphore sized by the platform's concurrency
// ceiling, so a burst of calendars never exceeds what the remote API
// tolerates. Microsoft Graph throttles a mailbox at four concurrent
// requests; Google imposes no ceiling and runs unbounded.
//
// A calendar that fails to fetch does not abort the run. Its events are
// simply absent from the result, and the failure is reported so callers
// can tell the user which calendars were skipped.
package retrieve
