package email

import (
	"fmt"
	"strings"

	"github.com/codr1/courtgrid/internal/events"
)

type Message struct {
	Subject string
	Body    string
}

// notification is one message addressed to an actor; the address comes
// from the contact directory.
type notification struct {
	ActorID string
	Message Message
}

// FormatTimeRange renders a span as e.g. "18:00 - 20:00 UTC".
func FormatTimeRange(startHour, hours int) string {
	if hours < 1 {
		hours = 1
	}
	return fmt.Sprintf("%02d:00 - %02d:00 UTC", startHour, startHour+hours)
}

func kindLabel(kind string) string {
	switch strings.TrimSpace(kind) {
	case "MATCH_INVITE":
		return "Match invite"
	case "TEAM_INVITE":
		return "Team invite"
	case "FACILITY_BOOKING":
		return "Booking request"
	}
	return "Request"
}

// buildNotifications maps an event to the messages it triggers. Events that
// nobody needs to hear about produce none.
func buildNotifications(e events.Event) ([]notification, error) {
	switch e.Type {
	case events.TypeRequestCreated:
		p, err := events.Decode[events.RequestCreated](e)
		if err != nil {
			return nil, err
		}
		label := kindLabel(p.Kind)
		return []notification{{ActorID: p.Receiver, Message: Message{
			Subject: fmt.Sprintf("New %s", strings.ToLower(label)),
			Body: strings.Join([]string{
				fmt.Sprintf("%s from %s is waiting for your answer.", label, p.Sender),
				"",
				fmt.Sprintf("Date: %s", p.Date),
				fmt.Sprintf("Time: %s", FormatTimeRange(p.Hour, p.Hours)),
				fmt.Sprintf("Request: %s", p.RequestID),
			}, "\n"),
		}}}, nil

	case events.TypeRequestAccepted:
		p, err := events.Decode[events.RequestAccepted](e)
		if err != nil {
			return nil, err
		}
		return []notification{{ActorID: p.Sender, Message: Message{
			Subject: "Request accepted",
			Body: strings.Join([]string{
				fmt.Sprintf("%s accepted your request.", p.Receiver),
				"",
				fmt.Sprintf("Request: %s", p.RequestID),
				fmt.Sprintf("Booking: %s", p.BookingID),
			}, "\n"),
		}}}, nil

	case events.TypeRequestRejected:
		p, err := events.Decode[events.RequestClosed](e)
		if err != nil {
			return nil, err
		}
		return []notification{{ActorID: p.Sender, Message: closedMessage("Request declined",
			fmt.Sprintf("%s declined your request.", p.Receiver), p.RequestID)}}, nil

	case events.TypeRequestExpired:
		p, err := events.Decode[events.RequestClosed](e)
		if err != nil {
			return nil, err
		}
		return []notification{
			{ActorID: p.Sender, Message: closedMessage("Request expired",
				"Your request expired before it was answered. The slot is free again.", p.RequestID)},
			{ActorID: p.Receiver, Message: closedMessage("Request expired",
				fmt.Sprintf("The request from %s expired before it was answered.", p.Sender), p.RequestID)},
		}, nil

	case events.TypeRequestCancelled:
		p, err := events.Decode[events.RequestClosed](e)
		if err != nil {
			return nil, err
		}
		return []notification{{ActorID: p.Receiver, Message: closedMessage("Request withdrawn",
			fmt.Sprintf("%s withdrew their request.", p.Sender), p.RequestID)}}, nil

	case events.TypeBooked:
		p, err := events.Decode[events.Booked](e)
		if err != nil {
			return nil, err
		}
		return []notification{{ActorID: p.Owner, Message: Message{
			Subject: fmt.Sprintf("Booking confirmed - %s", p.Reference),
			Body: strings.Join([]string{
				"Your booking is confirmed.",
				"",
				fmt.Sprintf("Reference: %s", p.Reference),
				fmt.Sprintf("Date: %s", p.Date),
				fmt.Sprintf("Time: %s", FormatTimeRange(p.Hour, p.Hours)),
			}, "\n"),
		}}}, nil

	case events.TypeBookingCancelled:
		p, err := events.Decode[events.BookingCancelled](e)
		if err != nil {
			return nil, err
		}
		if p.Counterpart == "" {
			return nil, nil
		}
		return []notification{{ActorID: p.Counterpart, Message: Message{
			Subject: fmt.Sprintf("Booking cancelled - %s", p.Reference),
			Body:    fmt.Sprintf("%s cancelled booking %s.", p.Owner, p.Reference),
		}}}, nil
	}
	return nil, nil
}

func closedMessage(subject, lead, requestID string) Message {
	return Message{
		Subject: subject,
		Body:    strings.Join([]string{lead, "", fmt.Sprintf("Request: %s", requestID)}, "\n"),
	}
}
