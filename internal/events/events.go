// Package events defines the domain events emitted after scheduling changes
// commit, the outbox they are stored in, and the publishers that deliver them.
package events

import (
	"encoding/json"
	"fmt"
	"time"
)

type Type string

const (
	TypeRequestCreated   Type = "RequestCreated"
	TypeRequestAccepted  Type = "RequestAccepted"
	TypeRequestRejected  Type = "RequestRejected"
	TypeRequestExpired   Type = "RequestExpired"
	TypeRequestCancelled Type = "RequestCancelled"
	TypeBooked           Type = "Booked"
	TypeBookingCancelled Type = "BookingCancelled"
)

// RoutingKeyPrefix is prepended to every broker routing key.
const RoutingKeyPrefix = "scheduling."

var routingKeys = map[Type]string{
	TypeRequestCreated:   "request.created",
	TypeRequestAccepted:  "request.accepted",
	TypeRequestRejected:  "request.rejected",
	TypeRequestExpired:   "request.expired",
	TypeRequestCancelled: "request.cancelled",
	TypeBooked:           "booking.created",
	TypeBookingCancelled: "booking.cancelled",
}

// RoutingKey is the topic routing key for t, e.g. scheduling.request.created.
func RoutingKey(t Type) string {
	if key, ok := routingKeys[t]; ok {
		return RoutingKeyPrefix + key
	}
	return RoutingKeyPrefix + "unknown"
}

// Event is one flat, serializable domain event. ID is the outbox sequence
// number and is zero until the event is stored.
type Event struct {
	ID          int64           `json:"id"`
	Type        Type            `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

func NewEvent(t Type, aggregateID string, occurredAt time.Time, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return Event{
		Type:        t,
		AggregateID: aggregateID,
		OccurredAt:  occurredAt.UTC(),
		Payload:     raw,
	}, nil
}

// Decode unmarshals the payload of e into T.
func Decode[T any](e Event) (T, error) {
	var v T
	if err := json.Unmarshal(e.Payload, &v); err != nil {
		return v, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return v, nil
}

type RequestCreated struct {
	RequestID  string `json:"request_id"`
	Sender     string `json:"sender"`
	Receiver   string `json:"receiver"`
	ResourceID string `json:"resource_id"`
	Kind       string `json:"kind"`
	Date       string `json:"date"`
	Hour       int    `json:"hour"`
	Hours      int    `json:"hours"`
}

type RequestAccepted struct {
	RequestID string `json:"request_id"`
	BookingID string `json:"booking_id"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
}

// RequestClosed is the payload of RequestRejected, RequestExpired and
// RequestCancelled.
type RequestClosed struct {
	RequestID string `json:"request_id"`
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
}

type Booked struct {
	BookingID   string `json:"booking_id"`
	Reference   string `json:"reference"`
	ResourceID  string `json:"resource_id"`
	Owner       string `json:"owner"`
	Counterpart string `json:"counterpart,omitempty"`
	Date        string `json:"date"`
	Hour        int    `json:"hour"`
	Hours       int    `json:"hours"`
}

type BookingCancelled struct {
	BookingID   string `json:"booking_id"`
	Reference   string `json:"reference"`
	Owner       string `json:"owner"`
	Counterpart string `json:"counterpart,omitempty"`
}
