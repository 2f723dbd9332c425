package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	dbgen "github.com/codr1/courtgrid/internal/db/generated"
)

// Append stores e in the domain_events outbox through q and returns it with
// its sequence number set. Call it inside the transaction that made the change.
func Append(ctx context.Context, q dbgen.Querier, e Event) (Event, error) {
	id, err := q.InsertDomainEvent(ctx, dbgen.InsertDomainEventParams{
		EventType:   string(e.Type),
		AggregateID: e.AggregateID,
		Payload:     string(e.Payload),
		CreatedAt:   e.OccurredAt.UTC(),
	})
	if err != nil {
		return Event{}, fmt.Errorf("append %s event: %w", e.Type, err)
	}
	e.ID = id
	return e, nil
}

// ListAfter returns up to limit stored events with an ID greater than afterID.
func ListAfter(ctx context.Context, q dbgen.Querier, afterID int64, limit int) ([]Event, error) {
	rows, err := q.ListDomainEventsAfter(ctx, dbgen.ListDomainEventsAfterParams{
		AfterID: afterID,
		Limit:   int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	out := make([]Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, Event{
			ID:          row.ID,
			Type:        Type(row.EventType),
			AggregateID: row.AggregateID,
			OccurredAt:  row.CreatedAt,
			Payload:     json.RawMessage(row.Payload),
		})
	}
	return out, nil
}

// PurgeBefore deletes stored events created before cutoff.
func PurgeBefore(ctx context.Context, q dbgen.Querier, cutoff time.Time) (int64, error) {
	n, err := q.DeleteDomainEventsBefore(ctx, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge events: %w", err)
	}
	return n, nil
}
