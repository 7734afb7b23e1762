// Package store manages the local SQLite cache of linked accounts and
// their calendar selections.
//
// Refresh tokens are NOT stored here. They live in separate token files
// managed by the auth package; the database only knows which accounts
// exist, which platform each belongs to, and which of their calendars the
// user picked for availability searches and hold events.
package store
