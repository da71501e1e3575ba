// Package history persists one record per build so operators can answer
// "what did the last builds do" without scraping logs. It is not a render
// cache: pages are recomputed from the content store on every build.
package history

import (
	"context"
	"time"
)

// Entry is one recorded build.
type Entry struct {
	BuildID   string
	StartedAt time.Time
	Duration  time.Duration
	Pages     int
	Drafts    int
	Outcome   string // success|failed
	Error     string // empty on success
}

// Store defines the interface for persisting and listing build records.
type Store interface {
	// Record appends a build entry.
	Record(ctx context.Context, e Entry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Close closes the store and releases resources.
	Close() error
}
