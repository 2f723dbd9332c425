package email

import "context"

// Outgoing is one rendered notification ready for delivery.
type Outgoing struct {
	To      string
	Subject string
	Body    string
	// EventType tags the message so bounces and complaints can be traced
	// back to the event that produced it.
	EventType string
}

// Mailer delivers outgoing notifications.
type Mailer interface {
	Deliver(ctx context.Context, msg Outgoing) error
}
