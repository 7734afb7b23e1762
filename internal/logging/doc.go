// Package logging provides slog helpers and the attribute-key vocabulary
// used across the codebase, so that every log line names the provider,
// account and calendar it concerns with the same keys.
package logging
