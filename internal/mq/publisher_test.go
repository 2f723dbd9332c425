package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/codr1/courtgrid/internal/events"
)

type sent struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []sent
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_RoutesByEventType(t *testing.T) {
	ch := &fakeChannel{}
	pub := newPublisherWithChannel(ch, "scheduling.events")

	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	e, err := events.NewEvent(events.TypeRequestAccepted, "req-1", at, events.RequestAccepted{RequestID: "req-1", BookingID: "bk-1"})
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	e.ID = 42

	if err := pub.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(ch.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(ch.sent))
	}

	got := ch.sent[0]
	if got.exchange != "scheduling.events" {
		t.Errorf("exchange = %q", got.exchange)
	}
	if got.key != "scheduling.request.accepted" {
		t.Errorf("routing key = %q", got.key)
	}
	if got.msg.MessageId != "42" || got.msg.DeliveryMode != amqp.Persistent {
		t.Errorf("message headers = %+v", got.msg)
	}

	var decoded events.Event
	if err := json.Unmarshal(got.msg.Body, &decoded); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	payload, err := events.Decode[events.RequestAccepted](decoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if payload.BookingID != "bk-1" {
		t.Errorf("booking id = %q", payload.BookingID)
	}

	if err := pub.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !ch.closed {
		t.Error("channel not closed")
	}
}

func TestPublisher_ReturnsChannelErrors(t *testing.T) {
	boom := errors.New("connection reset")
	pub := newPublisherWithChannel(&fakeChannel{err: boom}, "x")

	err := pub.Publish(context.Background(), events.Event{Type: events.TypeBooked, Payload: json.RawMessage(`{}`)})
	if !errors.Is(err, boom) {
		t.Fatalf("Publish error = %v, want %v", err, boom)
	}
}
