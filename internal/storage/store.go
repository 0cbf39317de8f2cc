// Package storage persists daily checklist documents, one per
// calendar date.
package storage

import "context"

// Store reads and writes the checklist document for a date key
// (YYYY-MM-DD). Writes replace the whole document atomically; a
// crashed run never leaves a truncated or mixed-content document.
type Store interface {
	// Read returns the stored document for the date. ok is false when
	// no document exists for that date.
	Read(ctx context.Context, date string) (content string, ok bool, err error)

	// ReadLatestBefore returns the most recent stored document dated
	// strictly before the given date, so carryover survives days
	// without a run. ok is false when no older document exists.
	ReadLatestBefore(ctx context.Context, date string) (content string, ok bool, err error)

	// Write persists the document for the date, replacing any
	// existing one.
	Write(ctx context.Context, date, content string) error

	// Location describes where the document for a date lives, for
	// user-facing output.
	Location(date string) string
}
