package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	dbgen "github.com/codr1/courtgrid/internal/db/generated"
	"github.com/codr1/courtgrid/internal/events"
	"github.com/codr1/courtgrid/internal/guard"
	"github.com/codr1/courtgrid/internal/models"
)

const (
	referenceAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	referenceLength   = 8
)

// DirectBookInput reserves a facility without negotiation.
type DirectBookInput struct {
	ActorID     string
	ResourceRef string
	Date        string
	StartHour   int
	Hours       int
}

// DirectBook confirms the slots for ActorID in one step. Only facility
// resources can be booked directly; team calendars need an accepted invite.
func (o *Orchestrator) DirectBook(ctx context.Context, in DirectBookInput) (models.Booking, error) {
	const op = "booking.direct_book"

	if in.ActorID == "" {
		return models.Booking{}, unauthorized(op, "actor is required")
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return models.Booking{}, models.WrapError(models.KindInvalidInput, op, err)
	}
	if in.Hours == 0 {
		in.Hours = 1
	}
	if err := o.checkHours(op, in.Hours); err != nil {
		return models.Booking{}, err
	}

	res, err := o.scope(o.db.Queries).guard.ResolveResource(ctx, models.RequestKindFacilityBooking, in.ResourceRef, "")
	if err != nil {
		return models.Booking{}, translate(op, err)
	}
	span := models.Span{ResourceID: res.ID, Date: date, StartHour: in.StartHour, Hours: in.Hours}

	logger := componentLogger(ctx, op)
	var created models.Booking
	err = o.withSlots(ctx, op, span.Keys(), func(s scope) (events.Event, error) {
		validated, err := s.guard.Validate(ctx, guard.Proposal{
			SenderID:    in.ActorID,
			Kind:        models.RequestKindFacilityBooking,
			ResourceRef: res.ID,
			Date:        date,
			StartHour:   in.StartHour,
			Hours:       in.Hours,
		})
		if err != nil {
			return events.Event{}, err
		}

		bookingID := uuid.NewString()
		holder := models.Holder{Kind: models.HolderBooking, ID: bookingID}
		if err := s.calendar.Occupy(ctx, validated, span, holder, models.OccupancyConfirmed); err != nil {
			return events.Event{}, err
		}
		created, err = o.insertBooking(ctx, s, newBooking{
			ID:      bookingID,
			Span:    span,
			OwnerID: in.ActorID,
		})
		if err != nil {
			return events.Event{}, err
		}

		return events.NewEvent(events.TypeBooked, created.ID, created.ConfirmedAt, events.Booked{
			BookingID:  created.ID,
			Reference:  created.Reference,
			ResourceID: created.ResourceID,
			Owner:      created.OwnerID,
			Date:       created.Date,
			Hour:       created.StartHour,
			Hours:      created.Hours,
		})
	})
	if err != nil {
		logger.Debug().Err(err).Str("actor_id", in.ActorID).Str("resource_id", res.ID).Msg("Direct booking not created")
		return models.Booking{}, err
	}

	logger.Info().
		Str("booking_id", created.ID).
		Str("reference", created.Reference).
		Str("resource_id", created.ResourceID).
		Str("date", created.Date).
		Int("hour", created.StartHour).
		Msg("Booking confirmed")
	return created, nil
}

// CancelBooking cancels a confirmed booking on behalf of its owner and frees
// its slots.
func (o *Orchestrator) CancelBooking(ctx context.Context, bookingID, callerID string) (models.Booking, error) {
	const op = "booking.cancel_booking"

	existing, err := o.getBooking(ctx, o.db.Queries, bookingID)
	if err != nil {
		return models.Booking{}, translate(op, err)
	}
	if callerID == "" || callerID != existing.OwnerID {
		return models.Booking{}, unauthorized(op, "only the booking owner can cancel it")
	}

	var cancelled models.Booking
	err = o.withSlots(ctx, op, existing.Span().Keys(), func(s scope) (events.Event, error) {
		now := o.now()
		n, err := s.q.CancelBooking(ctx, dbgen.CancelBookingParams{
			CancelledAt: sql.NullTime{Time: now, Valid: true},
			ID:          bookingID,
		})
		if err != nil {
			return events.Event{}, fmt.Errorf("cancel booking %s: %w", bookingID, err)
		}
		if n == 0 {
			return events.Event{}, models.Errorf(models.KindInvalidTransition, op, "booking %s is already cancelled", bookingID)
		}
		if _, err := s.q.DeactivateBookingSlots(ctx, bookingID); err != nil {
			return events.Event{}, fmt.Errorf("deactivate booking slots %s: %w", bookingID, err)
		}
		if err := tolerateNotFound(s.calendar.Release(ctx, existing.Span(), bookingID)); err != nil {
			return events.Event{}, err
		}

		cancelled, err = o.getBooking(ctx, s.q, bookingID)
		if err != nil {
			return events.Event{}, err
		}
		return events.NewEvent(events.TypeBookingCancelled, bookingID, now, events.BookingCancelled{
			BookingID:   bookingID,
			Reference:   cancelled.Reference,
			Owner:       cancelled.OwnerID,
			Counterpart: cancelled.CounterpartID,
		})
	})
	if err != nil {
		return models.Booking{}, err
	}

	componentLogger(ctx, op).Info().Str("booking_id", bookingID).Msg("Booking cancelled")
	return cancelled, nil
}

// GetBooking returns a booking visible to viewerID: its owner, its
// counterpart or the owner of its resource.
func (o *Orchestrator) GetBooking(ctx context.Context, bookingID, viewerID string) (models.Booking, error) {
	const op = "booking.get_booking"

	b, err := o.getBooking(ctx, o.db.Queries, bookingID)
	if err != nil {
		return models.Booking{}, translate(op, err)
	}
	if b.Involves(viewerID) {
		return b, nil
	}
	res, err := o.GetResource(ctx, b.ResourceID)
	if err != nil {
		return models.Booking{}, err
	}
	if viewerID == "" || res.OwnerID != viewerID {
		return models.Booking{}, unauthorized(op, "booking belongs to other actors")
	}
	return b, nil
}

// ListBookings lists bookings actorID owns or is the counterpart of.
func (o *Orchestrator) ListBookings(ctx context.Context, actorID string, status models.BookingStatus, limit int) ([]models.Booking, error) {
	const op = "booking.list_bookings"

	if actorID == "" {
		return nil, unauthorized(op, "actor is required")
	}
	if status != "" && status != models.BookingStatusConfirmed && status != models.BookingStatusCancelled {
		return nil, invalidInput(op, "unknown status %q", status)
	}
	rows, err := o.db.Queries.ListBookingsForActor(ctx, dbgen.ListBookingsForActorParams{
		ActorID: actorID,
		Status:  string(status),
		Limit:   int64(clampLimit(limit)),
	})
	if err != nil {
		return nil, translate(op, err)
	}
	out := make([]models.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.BookingFromDB(row))
	}
	return out, nil
}

type newBooking struct {
	ID            string
	Span          models.Span
	OwnerID       string
	CounterpartID string
	RequestID     string
}

// insertBooking writes the booking row and one active booking_slots row per
// hour. The partial unique index on booking_slots rejects a second active
// booking for the same slot.
func (o *Orchestrator) insertBooking(ctx context.Context, s scope, in newBooking) (models.Booking, error) {
	reference, err := gonanoid.Generate(referenceAlphabet, referenceLength)
	if err != nil {
		return models.Booking{}, fmt.Errorf("generate booking reference: %w", err)
	}

	now := o.now()
	params := dbgen.CreateBookingParams{
		ID:            in.ID,
		Reference:     reference,
		ResourceID:    in.Span.ResourceID,
		SlotDate:      in.Span.Date,
		StartHour:     int64(in.Span.StartHour),
		Hours:         int64(in.Span.Hours),
		OwnerID:       in.OwnerID,
		CounterpartID: in.CounterpartID,
		ConfirmedAt:   now,
		UpdatedAt:     now,
	}
	if in.RequestID != "" {
		params.RequestID = sql.NullString{String: in.RequestID, Valid: true}
	}
	if err := s.q.CreateBooking(ctx, params); err != nil {
		return models.Booking{}, fmt.Errorf("create booking: %w", err)
	}

	for _, key := range in.Span.Keys() {
		err := s.q.AddBookingSlot(ctx, dbgen.AddBookingSlotParams{
			BookingID:  in.ID,
			ResourceID: key.ResourceID,
			SlotDate:   key.Date,
			Hour:       int64(key.Hour),
		})
		if err != nil {
			return models.Booking{}, fmt.Errorf("add booking slot %s: %w", key, err)
		}
	}

	return o.getBooking(ctx, s.q, in.ID)
}

func (o *Orchestrator) getBooking(ctx context.Context, q dbgen.Querier, bookingID string) (models.Booking, error) {
	row, err := q.GetBooking(ctx, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, models.Errorf(models.KindNotFound, "booking.get_booking", "booking %s not found", bookingID)
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	return models.BookingFromDB(row), nil
}
