// Package microsoft implements the calendar provider for Microsoft Outlook
// via the Graph REST API.
//
// Graph rejects more than four simultaneous requests per mailbox, so
// Concurrency reports 4 and the orchestrator gates every event-retrieval
// and event-creation call for this platform through a counting semaphore of
// that size.
package microsoft
