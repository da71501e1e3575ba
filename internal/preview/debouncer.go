package preview

import (
	"context"
	"time"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
)

// Debouncer coalesces bursts of change notifications into single rebuild
// triggers: a trigger fires once the quiet window elapses without further
// requests, and a max delay bounds how long a continuous stream of edits can
// postpone the rebuild.
type Debouncer struct {
	quiet time.Duration
	max   time.Duration

	requests chan struct{}
	triggers chan struct{}
}

// NewDebouncer validates the windows and creates a debouncer.
func NewDebouncer(quiet, max time.Duration) (*Debouncer, error) {
	if quiet <= 0 {
		return nil, ferrors.ValidationError("quiet window must be > 0").Build()
	}
	if max < quiet {
		return nil, ferrors.ValidationError("max delay must be >= quiet window").Build()
	}
	return &Debouncer{
		quiet:    quiet,
		max:      max,
		requests: make(chan struct{}, 1),
		triggers: make(chan struct{}, 1),
	}, nil
}

// Request notes a change. Never blocks.
func (d *Debouncer) Request() {
	select {
	case d.requests <- struct{}{}:
	default:
	}
}

// Triggers delivers coalesced rebuild triggers.
func (d *Debouncer) Triggers() <-chan struct{} {
	return d.triggers
}

// Run processes requests until the context is canceled. It is meant to run as
// a single goroutine.
func (d *Debouncer) Run(ctx context.Context) {
	var (
		quietTimer *time.Timer
		maxTimer   *time.Timer
		quietC     <-chan time.Time
		maxC       <-chan time.Time
	)

	stopTimers := func() {
		if quietTimer != nil {
			quietTimer.Stop()
			quietTimer, quietC = nil, nil
		}
		if maxTimer != nil {
			maxTimer.Stop()
			maxTimer, maxC = nil, nil
		}
	}
	defer stopTimers()

	emit := func() {
		stopTimers()
		select {
		case d.triggers <- struct{}{}:
		default:
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.requests:
			if quietTimer == nil {
				quietTimer = time.NewTimer(d.quiet)
				quietC = quietTimer.C
				maxTimer = time.NewTimer(d.max)
				maxC = maxTimer.C
			} else {
				if !quietTimer.Stop() {
					select {
					case <-quietTimer.C:
					default:
					}
				}
				quietTimer.Reset(d.quiet)
			}
		case <-quietC:
			emit()
		case <-maxC:
			emit()
		}
	}
}
