package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Publisher delivers committed events to one external collaborator.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, e Event) error
}

// Dispatcher fans events out to every registered publisher. A failing
// publisher is logged and skipped; it never affects the others.
type Dispatcher struct {
	mu         sync.RWMutex
	publishers []Publisher
}

func NewDispatcher(publishers ...Publisher) *Dispatcher {
	return &Dispatcher{publishers: publishers}
}

func (d *Dispatcher) Register(p Publisher) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.publishers = append(d.publishers, p)
}

func (d *Dispatcher) Dispatch(ctx context.Context, evts ...Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	publishers := make([]Publisher, len(d.publishers))
	copy(publishers, d.publishers)
	d.mu.RUnlock()

	logger := log.Ctx(ctx)
	for _, e := range evts {
		for _, p := range publishers {
			if err := p.Publish(ctx, e); err != nil {
				logger.Error().
					Err(err).
					Str("publisher", p.Name()).
					Str("event_type", string(e.Type)).
					Int64("event_id", e.ID).
					Msg("Failed to publish event")
			}
		}
	}
}

// LogPublisher writes every event to the structured log.
type LogPublisher struct{}

func (LogPublisher) Name() string { return "log" }

func (LogPublisher) Publish(ctx context.Context, e Event) error {
	log.Ctx(ctx).Info().
		Int64("event_id", e.ID).
		Str("event_type", string(e.Type)).
		Str("aggregate_id", e.AggregateID).
		RawJSON("payload", e.Payload).
		Msg("Domain event")
	return nil
}
