package models

import "time"

type RequestKind string

const (
	RequestKindFacilityBooking RequestKind = "FACILITY_BOOKING"
	RequestKindMatchInvite     RequestKind = "MATCH_INVITE"
	RequestKindTeamInvite      RequestKind = "TEAM_INVITE"
)

func (k RequestKind) Valid() bool {
	switch k {
	case RequestKindFacilityBooking, RequestKindMatchInvite, RequestKindTeamInvite:
		return true
	}
	return false
}

// IsInvite reports whether the request targets a team calendar.
func (k RequestKind) IsInvite() bool {
	return k == RequestKindMatchInvite || k == RequestKindTeamInvite
}

// ResourceKind is the kind of resource a request of this kind must reference.
func (k RequestKind) ResourceKind() ResourceKind {
	if k.IsInvite() {
		return ResourceKindTeam
	}
	return ResourceKindFacility
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusExpired   RequestStatus = "EXPIRED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected, RequestStatusExpired, RequestStatusCancelled:
		return true
	}
	return false
}

// Terminal statuses never change again.
func (s RequestStatus) Terminal() bool {
	return s.Valid() && s != RequestStatusPending
}

type Decision string

const (
	DecisionAccept Decision = "ACCEPT"
	DecisionReject Decision = "REJECT"
)

func (d Decision) Valid() bool {
	return d == DecisionAccept || d == DecisionReject
}

// Request is a proposal over one or more slots between a sender and a receiver.
// While PENDING it holds its slots; an accepted request hands them to its booking.
type Request struct {
	ID          string        `json:"id"`
	SenderID    string        `json:"sender_id"`
	ReceiverID  string        `json:"receiver_id"`
	ResourceID  string        `json:"resource_id"`
	Date        string        `json:"date"`
	StartHour   int           `json:"hour"`
	Hours       int           `json:"hours"`
	Message     string        `json:"message,omitempty"`
	Kind        RequestKind   `json:"kind"`
	Status      RequestStatus `json:"status"`
	BookingID   string        `json:"booking_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
}

func (r Request) Span() Span {
	return Span{ResourceID: r.ResourceID, Date: r.Date, StartHour: r.StartHour, Hours: r.Hours}
}

// Involves reports whether actorID is a party to the request.
func (r Request) Involves(actorID string) bool {
	return actorID != "" && (actorID == r.SenderID || actorID == r.ReceiverID)
}
