package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codr1/courtgrid/internal/testutil"
)

type recordingPublisher struct {
	name   string
	err    error
	events []Event
}

func (p *recordingPublisher) Name() string { return p.name }

func (p *recordingPublisher) Publish(_ context.Context, e Event) error {
	p.events = append(p.events, e)
	return p.err
}

func TestRoutingKey(t *testing.T) {
	tests := map[Type]string{
		TypeRequestCreated:   "scheduling.request.created",
		TypeRequestExpired:   "scheduling.request.expired",
		TypeBooked:           "scheduling.booking.created",
		TypeBookingCancelled: "scheduling.booking.cancelled",
		Type("Bogus"):        "scheduling.unknown",
	}
	for typ, want := range tests {
		if got := RoutingKey(typ); got != want {
			t.Errorf("RoutingKey(%s) = %q, want %q", typ, got, want)
		}
	}
}

func TestNewEventAndDecode(t *testing.T) {
	at := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	e, err := NewEvent(TypeRequestAccepted, "req-1", at, RequestAccepted{RequestID: "req-1", BookingID: "bk-1"})
	if err != nil {
		t.Fatalf("new event: %v", err)
	}

	payload, err := Decode[RequestAccepted](e)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.RequestID != "req-1" || payload.BookingID != "bk-1" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if _, err := Decode[RequestAccepted](Event{Type: TypeRequestAccepted, Payload: []byte("{")}); err == nil {
		t.Fatal("expected decode error for truncated payload")
	}
}

func TestDispatch_FailingPublisherDoesNotStopOthers(t *testing.T) {
	failing := &recordingPublisher{name: "broken", err: errors.New("broker down")}
	healthy := &recordingPublisher{name: "healthy"}
	d := NewDispatcher(failing)
	d.Register(healthy)

	first, _ := NewEvent(TypeBooked, "bk-1", time.Now(), Booked{BookingID: "bk-1"})
	second, _ := NewEvent(TypeBookingCancelled, "bk-1", time.Now(), BookingCancelled{BookingID: "bk-1"})
	d.Dispatch(context.Background(), first, second)

	if len(failing.events) != 2 {
		t.Fatalf("expected failing publisher to see 2 events, got %d", len(failing.events))
	}
	if len(healthy.events) != 2 {
		t.Fatalf("expected healthy publisher to see 2 events, got %d", len(healthy.events))
	}
	if healthy.events[0].Type != TypeBooked || healthy.events[1].Type != TypeBookingCancelled {
		t.Fatalf("events delivered out of order: %+v", healthy.events)
	}

	var nilDispatcher *Dispatcher
	nilDispatcher.Dispatch(context.Background(), first)
}

func TestOutbox(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	var stored []Event
	for _, id := range []string{"req-1", "req-2", "req-3"} {
		e, err := NewEvent(TypeRequestCreated, id, at, RequestCreated{RequestID: id, Hour: 18})
		if err != nil {
			t.Fatalf("new event: %v", err)
		}
		e, err = Append(ctx, database.Queries, e)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		stored = append(stored, e)
		at = at.Add(time.Hour)
	}
	if stored[0].ID == 0 || stored[1].ID <= stored[0].ID {
		t.Fatalf("expected increasing sequence numbers, got %d, %d", stored[0].ID, stored[1].ID)
	}

	after, err := ListAfter(ctx, database.Queries, stored[0].ID, 10)
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(after) != 2 || after[0].AggregateID != "req-2" {
		t.Fatalf("unexpected events after %d: %+v", stored[0].ID, after)
	}
	payload, err := Decode[RequestCreated](after[0])
	if err != nil {
		t.Fatalf("decode stored payload: %v", err)
	}
	if payload.RequestID != "req-2" || payload.Hour != 18 {
		t.Fatalf("unexpected stored payload: %+v", payload)
	}

	n, err := PurgeBefore(ctx, database.Queries, time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 purged events, got %d", n)
	}
}
