package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codr1/courtgrid/internal/events"
	"github.com/codr1/courtgrid/internal/guard"
	"github.com/codr1/courtgrid/internal/ledger"
	"github.com/codr1/courtgrid/internal/models"
)

// SubmitRequestInput is a proposal from SenderID to ReceiverID. ResourceRef
// may be empty for invites, which then target the receiver's team calendar.
type SubmitRequestInput struct {
	SenderID    string
	ReceiverID  string
	ResourceRef string
	Date        string
	StartHour   int
	Hours       int
	Message     string
	Kind        models.RequestKind
}

// SubmitRequest holds the proposed slots and records a PENDING request. The
// occupancy write under the slot lock is authoritative: if another holder got
// there first the call fails with SlotTaken even when validation saw the slot
// free.
func (o *Orchestrator) SubmitRequest(ctx context.Context, in SubmitRequestInput) (models.Request, error) {
	const op = "booking.submit_request"

	if in.SenderID == "" {
		return models.Request{}, unauthorized(op, "sender is required")
	}
	if in.ReceiverID == "" {
		return models.Request{}, invalidInput(op, "receiver is required")
	}
	date, err := models.ParseDate(in.Date)
	if err != nil {
		return models.Request{}, models.WrapError(models.KindInvalidInput, op, err)
	}
	if in.Hours == 0 {
		in.Hours = 1
	}
	if err := o.checkHours(op, in.Hours); err != nil {
		return models.Request{}, err
	}

	// Resources never move, so the lock keys can be computed before locking.
	res, err := o.scope(o.db.Queries).guard.ResolveResource(ctx, in.Kind, in.ResourceRef, in.ReceiverID)
	if err != nil {
		return models.Request{}, translate(op, err)
	}
	span := models.Span{ResourceID: res.ID, Date: date, StartHour: in.StartHour, Hours: in.Hours}

	logger := componentLogger(ctx, op)
	var created models.Request
	err = o.withSlots(ctx, op, span.Keys(), func(s scope) (events.Event, error) {
		validated, err := s.guard.Validate(ctx, guard.Proposal{
			SenderID:    in.SenderID,
			ReceiverID:  in.ReceiverID,
			Kind:        in.Kind,
			ResourceRef: res.ID,
			Date:        date,
			StartHour:   in.StartHour,
			Hours:       in.Hours,
		})
		if err != nil {
			return events.Event{}, err
		}

		requestID := uuid.NewString()
		holder := models.Holder{Kind: models.HolderRequest, ID: requestID}
		if err := s.calendar.Occupy(ctx, validated, span, holder, models.OccupancyHeld); err != nil {
			return events.Event{}, err
		}

		created, err = s.ledger.Create(ctx, ledger.NewRequest{
			ID:         requestID,
			SenderID:   in.SenderID,
			ReceiverID: in.ReceiverID,
			Resource:   validated,
			Span:       span,
			Message:    strings.TrimSpace(in.Message),
			Kind:       in.Kind,
		})
		if err != nil {
			return events.Event{}, err
		}

		return events.NewEvent(events.TypeRequestCreated, created.ID, created.CreatedAt, events.RequestCreated{
			RequestID:  created.ID,
			Sender:     created.SenderID,
			Receiver:   created.ReceiverID,
			ResourceID: created.ResourceID,
			Kind:       string(created.Kind),
			Date:       created.Date,
			Hour:       created.StartHour,
			Hours:      created.Hours,
		})
	})
	if err != nil {
		logger.Debug().Err(err).Str("sender_id", in.SenderID).Str("resource_id", res.ID).Msg("Request not created")
		return models.Request{}, err
	}

	logger.Info().
		Str("request_id", created.ID).
		Str("resource_id", created.ResourceID).
		Str("date", created.Date).
		Int("hour", created.StartHour).
		Msg("Request created")
	return created, nil
}

// Respond applies the receiver's decision. Accepting upgrades the held slots
// to CONFIRMED and creates the booking; rejecting frees them.
func (o *Orchestrator) Respond(ctx context.Context, requestID, responderID string, decision models.Decision) (models.Request, error) {
	const op = "booking.respond"

	if !decision.Valid() {
		return models.Request{}, invalidInput(op, "decision must be %s or %s", models.DecisionAccept, models.DecisionReject)
	}
	req, err := o.scope(o.db.Queries).ledger.Get(ctx, requestID)
	if err != nil {
		return models.Request{}, translate(op, err)
	}
	if responderID == "" || responderID != req.ReceiverID {
		return models.Request{}, unauthorized(op, "only the receiver can respond to this request")
	}

	logger := componentLogger(ctx, op).With().Str("request_id", requestID).Str("decision", string(decision)).Logger()
	var updated models.Request
	err = o.withSlots(ctx, op, req.Span().Keys(), func(s scope) (events.Event, error) {
		if decision == models.DecisionReject {
			updated, err = s.ledger.Transition(ctx, requestID, models.RequestStatusRejected, "")
			if err != nil {
				return events.Event{}, err
			}
			if err := tolerateNotFound(s.calendar.Release(ctx, updated.Span(), requestID)); err != nil {
				return events.Event{}, err
			}
			return events.NewEvent(events.TypeRequestRejected, requestID, updated.UpdatedAt, closedPayload(updated))
		}

		held, err := s.calendar.HeldBy(ctx, req.Span(), requestID)
		if err != nil {
			return events.Event{}, err
		}
		if !held {
			current, err := s.ledger.Get(ctx, requestID)
			if err != nil {
				return events.Event{}, err
			}
			return events.Event{}, models.Errorf(models.KindInvalidTransition, op, "request is %s and no longer holds its slots", current.Status)
		}

		bookingID := uuid.NewString()
		updated, err = s.ledger.Transition(ctx, requestID, models.RequestStatusAccepted, bookingID)
		if err != nil {
			return events.Event{}, err
		}
		if err := s.calendar.Confirm(ctx, updated.Span(), requestID, bookingID); err != nil {
			return events.Event{}, err
		}
		if _, err := o.insertBooking(ctx, s, newBooking{
			ID:            bookingID,
			Span:          updated.Span(),
			OwnerID:       updated.SenderID,
			CounterpartID: updated.ReceiverID,
			RequestID:     requestID,
		}); err != nil {
			return events.Event{}, err
		}

		return events.NewEvent(events.TypeRequestAccepted, requestID, updated.UpdatedAt, events.RequestAccepted{
			RequestID: requestID,
			BookingID: bookingID,
			Sender:    updated.SenderID,
			Receiver:  updated.ReceiverID,
		})
	})
	if err != nil {
		logger.Debug().Err(err).Msg("Response not applied")
		return models.Request{}, err
	}

	logger.Info().Str("status", string(updated.Status)).Str("booking_id", updated.BookingID).Msg("Request answered")
	return updated, nil
}

// CancelRequest withdraws a PENDING request on behalf of its sender.
func (o *Orchestrator) CancelRequest(ctx context.Context, requestID, callerID string) (models.Request, error) {
	const op = "booking.cancel_request"

	req, err := o.scope(o.db.Queries).ledger.Get(ctx, requestID)
	if err != nil {
		return models.Request{}, translate(op, err)
	}
	if callerID == "" || callerID != req.SenderID {
		return models.Request{}, unauthorized(op, "only the sender can cancel this request")
	}

	updated, err := o.closeRequest(ctx, op, req, models.RequestStatusCancelled, events.TypeRequestCancelled)
	if err != nil {
		return models.Request{}, err
	}
	componentLogger(ctx, op).Info().Str("request_id", requestID).Msg("Request cancelled")
	return updated, nil
}

// ExpireRequest moves a PENDING request past its expiry to EXPIRED and frees
// its slots. It takes the same locks as Respond, so an accept racing the
// sweep either wins or observes InvalidTransition.
func (o *Orchestrator) ExpireRequest(ctx context.Context, requestID string) (models.Request, error) {
	const op = "booking.expire_request"

	req, err := o.scope(o.db.Queries).ledger.Get(ctx, requestID)
	if err != nil {
		return models.Request{}, translate(op, err)
	}
	return o.closeRequest(ctx, op, req, models.RequestStatusExpired, events.TypeRequestExpired)
}

// ListExpiredRequests returns up to limit PENDING requests due for expiry.
func (o *Orchestrator) ListExpiredRequests(ctx context.Context, now time.Time, limit int) ([]models.Request, error) {
	reqs, err := o.scope(o.db.Queries).ledger.ListExpired(ctx, now, limit)
	if err != nil {
		return nil, translate("booking.list_expired", err)
	}
	return reqs, nil
}

func (o *Orchestrator) closeRequest(ctx context.Context, op string, req models.Request, to models.RequestStatus, evtType events.Type) (models.Request, error) {
	var updated models.Request
	err := o.withSlots(ctx, op, req.Span().Keys(), func(s scope) (events.Event, error) {
		var err error
		updated, err = s.ledger.Transition(ctx, req.ID, to, "")
		if err != nil {
			return events.Event{}, err
		}
		if err := tolerateNotFound(s.calendar.Release(ctx, updated.Span(), req.ID)); err != nil {
			return events.Event{}, err
		}
		return events.NewEvent(evtType, req.ID, updated.UpdatedAt, closedPayload(updated))
	})
	if err != nil {
		return models.Request{}, err
	}
	return updated, nil
}

func closedPayload(req models.Request) events.RequestClosed {
	return events.RequestClosed{
		RequestID: req.ID,
		Sender:    req.SenderID,
		Receiver:  req.ReceiverID,
	}
}

// GetRequest returns a request visible to viewerID.
func (o *Orchestrator) GetRequest(ctx context.Context, requestID, viewerID string) (models.Request, error) {
	const op = "booking.get_request"

	req, err := o.scope(o.db.Queries).ledger.Get(ctx, requestID)
	if err != nil {
		return models.Request{}, translate(op, err)
	}
	if !req.Involves(viewerID) {
		return models.Request{}, unauthorized(op, "request belongs to other actors")
	}
	return req, nil
}

// ListRequests lists the requests actorID sent or received.
func (o *Orchestrator) ListRequests(ctx context.Context, actorID string, role ledger.Role, status models.RequestStatus, limit int) ([]models.Request, error) {
	const op = "booking.list_requests"

	if actorID == "" {
		return nil, unauthorized(op, "actor is required")
	}
	if status != "" && !status.Valid() {
		return nil, invalidInput(op, "unknown status %q", status)
	}
	reqs, err := o.scope(o.db.Queries).ledger.ListForActor(ctx, actorID, role, status, clampLimit(limit))
	if err != nil {
		return nil, translate(op, err)
	}
	return reqs, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
