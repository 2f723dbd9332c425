package models

import (
	dbgen "github.com/codr1/courtgrid/internal/db/generated"
)

func ResourceFromDB(row dbgen.Resource) Resource {
	return Resource{
		ID:        row.ID,
		Slug:      row.Slug,
		Name:      row.Name,
		Kind:      ResourceKind(row.Kind),
		OwnerID:   row.OwnerID,
		OpenHour:  int(row.OpenHour),
		CloseHour: int(row.CloseHour),
		Timezone:  row.Timezone,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func RequestFromDB(row dbgen.Request) Request {
	req := Request{
		ID:         row.ID,
		SenderID:   row.SenderID,
		ReceiverID: row.ReceiverID,
		ResourceID: row.ResourceID,
		Date:       row.SlotDate,
		StartHour:  int(row.StartHour),
		Hours:      int(row.Hours),
		Message:    row.Message,
		Kind:       RequestKind(row.Kind),
		Status:     RequestStatus(row.Status),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
		ExpiresAt:  row.ExpiresAt,
	}
	if row.BookingID.Valid {
		req.BookingID = row.BookingID.String
	}
	if row.RespondedAt.Valid {
		respondedAt := row.RespondedAt.Time
		req.RespondedAt = &respondedAt
	}
	return req
}

func BookingFromDB(row dbgen.Booking) Booking {
	booking := Booking{
		ID:            row.ID,
		Reference:     row.Reference,
		ResourceID:    row.ResourceID,
		Date:          row.SlotDate,
		StartHour:     int(row.StartHour),
		Hours:         int(row.Hours),
		OwnerID:       row.OwnerID,
		CounterpartID: row.CounterpartID,
		Status:        BookingStatus(row.Status),
		ConfirmedAt:   row.ConfirmedAt,
	}
	if row.RequestID.Valid {
		booking.RequestID = row.RequestID.String
	}
	if row.CancelledAt.Valid {
		cancelledAt := row.CancelledAt.Time
		booking.CancelledAt = &cancelledAt
	}
	return booking
}
