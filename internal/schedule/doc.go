// Package schedule writes hold events onto a calendar so selected
// availability windows stay blocked off while they are shared.
//
// Event writes go through the same per-platform admission gates as event
// retrieval, since Microsoft Graph counts writes against the same
// per-mailbox concurrency ceiling as reads.
package schedule
