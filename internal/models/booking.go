package models

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking is the durable occupancy created by an accepted request or a direct
// reservation. Reference is the short confirmation code shown to people.
type Booking struct {
	ID            string        `json:"id"`
	Reference     string        `json:"reference"`
	ResourceID    string        `json:"resource_id"`
	Date          string        `json:"date"`
	StartHour     int           `json:"hour"`
	Hours         int           `json:"hours"`
	OwnerID       string        `json:"owner_id"`
	CounterpartID string        `json:"counterpart_id,omitempty"`
	RequestID     string        `json:"request_id,omitempty"`
	Status        BookingStatus `json:"status"`
	ConfirmedAt   time.Time     `json:"confirmed_at"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
}

func (b Booking) Span() Span {
	return Span{ResourceID: b.ResourceID, Date: b.Date, StartHour: b.StartHour, Hours: b.Hours}
}

// Involves reports whether actorID is the owner or counterpart.
func (b Booking) Involves(actorID string) bool {
	return actorID != "" && (actorID == b.OwnerID || actorID == b.CounterpartID)
}

type OccupancyState string

const (
	OccupancyFree      OccupancyState = "FREE"
	OccupancyHeld      OccupancyState = "HELD"
	OccupancyConfirmed OccupancyState = "CONFIRMED"
)

type HolderKind string

const (
	HolderRequest HolderKind = "REQUEST"
	HolderBooking HolderKind = "BOOKING"
)

// Holder references the request or booking occupying a slot.
type Holder struct {
	Kind HolderKind `json:"kind"`
	ID   string     `json:"id"`
}

// SlotView is one cell of the calendar grid. Holder is only set for viewers
// allowed to see who occupies the slot.
type SlotView struct {
	Date      string         `json:"date"`
	Hour      int            `json:"hour"`
	StartTime string         `json:"start_time"`
	Status    OccupancyState `json:"status"`
	Holder    *Holder        `json:"holder,omitempty"`
}
