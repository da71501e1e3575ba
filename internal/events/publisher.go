// Package events publishes build lifecycle events over NATS so external
// systems (deploy hooks, chat notifiers) can react to finished builds.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.ormside.net/rke/blogbuilder/internal/config"
	"git.ormside.net/rke/blogbuilder/internal/logfields"
)

// BuildCompleted is the payload published after every build, regardless of outcome.
type BuildCompleted struct {
	BuildID    string    `json:"build_id"`
	Outcome    string    `json:"outcome"`
	Pages      int       `json:"pages"`
	Drafts     int       `json:"drafts"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
}

// Publisher manages the NATS connection for build events.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS per the events configuration.
func NewPublisher(cfg config.EventsConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("build events are disabled")
	}

	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("blogbuilder"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	slog.Info("NATS publisher initialized",
		logfields.URL(cfg.NATSURL),
		logfields.Subject(cfg.Subject))

	return &Publisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishBuildCompleted publishes a BuildCompleted event. Publish failures are
// reported to the caller but must not fail the build itself.
func (p *Publisher) PublishBuildCompleted(event BuildCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}
	return p.conn.Flush()
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}
