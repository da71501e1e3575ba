package preview

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron for periodic rebuilds independent of file watching
// (e.g. picking up upstream content-repo commits while serving).
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a scheduler that fires trigger every interval.
func NewScheduler(interval time.Duration, trigger func()) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(trigger),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}

	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("starting rebuild scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
