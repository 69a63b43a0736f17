package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
)

// LogPublisher writes one structured log line per event.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, e Event) error {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "event published",
		"event", e.Name,
		"event_id", e.ID.String(),
		"entity_id", e.EntityID,
		"additional", e.AdditionalValues,
	)
	return nil
}

// Execer is the subset of a pgx pool or transaction NotifyPublisher needs.
type Execer interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
}

// NotifyPublisher delivers events over PostgreSQL LISTEN/NOTIFY. The
// payload is the JSON encoded event.
type NotifyPublisher struct {
	db      Execer
	channel string
}

func NewNotifyPublisher(db Execer, channel string) *NotifyPublisher {
	return &NotifyPublisher{db: db, channel: channel}
}

func (p *NotifyPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if _, err := p.db.Exec(ctx, "SELECT pg_notify($1, $2)", p.channel, string(payload)); err != nil {
		return fmt.Errorf("notify %s: %w", p.channel, err)
	}
	return nil
}

// RecordingPublisher keeps every published event in memory, in order.
type RecordingPublisher struct {
	Events []Event
}

func (p *RecordingPublisher) Publish(_ context.Context, e Event) error {
	p.Events = append(p.Events, e)
	return nil
}

// Names returns the names of the recorded events, in order.
func (p *RecordingPublisher) Names() []string {
	names := make([]string, len(p.Events))
	for i, e := range p.Events {
		names[i] = e.Name
	}
	return names
}
