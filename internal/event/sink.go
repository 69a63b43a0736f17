package event

import (
	"context"
	"fmt"
)

// Sink accepts events from a writer step.
type Sink interface {
	Add(ctx context.Context, e Event) error
	Flush(ctx context.Context) error
	Pending() int
}

// ImmediateSink publishes every event as soon as it is added.
type ImmediateSink struct {
	pub Publisher
}

func NewImmediateSink(pub Publisher) *ImmediateSink {
	return &ImmediateSink{pub: pub}
}

func (s *ImmediateSink) Add(ctx context.Context, e Event) error {
	if err := s.pub.Publish(ctx, e); err != nil {
		return fmt.Errorf("publish %s %d: %w", e.Name, e.EntityID, err)
	}
	return nil
}

// Flush is a no-op; nothing is ever queued.
func (s *ImmediateSink) Flush(context.Context) error { return nil }

func (s *ImmediateSink) Pending() int { return 0 }

// DeferredSink queues events for the whole run and publishes them on Flush.
// It is owned by a single writer and not safe for concurrent use.
type DeferredSink struct {
	pub   Publisher
	queue []Event
}

func NewDeferredSink(pub Publisher) *DeferredSink {
	return &DeferredSink{pub: pub}
}

// Add appends e to the queue.
func (s *DeferredSink) Add(_ context.Context, e Event) error {
	s.queue = append(s.queue, e)
	return nil
}

// Flush publishes the queue in order and clears it. On a publish failure the
// failed event and everything after it stay queued.
func (s *DeferredSink) Flush(ctx context.Context) error {
	for i, e := range s.queue {
		if err := s.pub.Publish(ctx, e); err != nil {
			s.queue = s.queue[i:]
			return fmt.Errorf("publish %s %d: %w", e.Name, e.EntityID, err)
		}
	}
	s.queue = nil
	return nil
}

// Pending returns the number of queued events.
func (s *DeferredSink) Pending() int {
	return len(s.queue)
}

// Rewind drops the events queued after the first n. It is a no-op when n is
// not below Pending.
func (s *DeferredSink) Rewind(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(s.queue) {
		s.queue = s.queue[:n]
	}
}

// Discard drops every queued event without publishing.
func (s *DeferredSink) Discard() {
	s.queue = nil
}
