// Package ledger stores negotiation requests and enforces their status
// state machine.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codr1/courtgrid/internal/clock"
	dbgen "github.com/codr1/courtgrid/internal/db/generated"
	"github.com/codr1/courtgrid/internal/models"
)

// DefaultTTL is how long a request stays PENDING when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// transitions lists the legal moves. Every status not listed as a key is
// terminal.
var transitions = map[models.RequestStatus][]models.RequestStatus{
	models.RequestStatusPending: {
		models.RequestStatusAccepted,
		models.RequestStatusRejected,
		models.RequestStatusExpired,
		models.RequestStatusCancelled,
	},
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to models.RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Ledger struct {
	q     dbgen.Querier
	clock clock.Clock
	ttl   time.Duration
}

func New(q dbgen.Querier, c clock.Clock, ttl time.Duration) *Ledger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Ledger{q: q, clock: clock.OrSystem(c), ttl: ttl}
}

// NewRequest describes a request to record. ID may be preset so the caller
// can hold slots under it before the row exists.
type NewRequest struct {
	ID         string
	SenderID   string
	ReceiverID string
	Resource   models.Resource
	Span       models.Span
	Message    string
	Kind       models.RequestKind
}

// Create stores a PENDING request. It expires after the ledger TTL or when the
// proposed slot starts, whichever comes first.
func (l *Ledger) Create(ctx context.Context, in NewRequest) (models.Request, error) {
	if !in.Kind.Valid() {
		return models.Request{}, models.Errorf(models.KindInvalidInput, "ledger.create", "unknown request kind %q", in.Kind)
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}

	now := l.clock.Now().UTC()
	expiresAt := now.Add(l.ttl)
	if start, err := in.Span.Start(in.Resource.Location()); err == nil && start.Before(expiresAt) {
		expiresAt = start.UTC()
	}

	err := l.q.CreateRequest(ctx, dbgen.CreateRequestParams{
		ID:         in.ID,
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		ResourceID: in.Resource.ID,
		SlotDate:   in.Span.Date,
		StartHour:  int64(in.Span.StartHour),
		Hours:      int64(in.Span.Hours),
		Message:    in.Message,
		Kind:       string(in.Kind),
		Status:     string(models.RequestStatusPending),
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		return models.Request{}, fmt.Errorf("create request: %w", err)
	}
	return l.Get(ctx, in.ID)
}

func (l *Ledger) Get(ctx context.Context, id string) (models.Request, error) {
	row, err := l.q.GetRequest(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Request{}, models.Errorf(models.KindNotFound, "ledger.get", "request %s not found", id)
	}
	if err != nil {
		return models.Request{}, fmt.Errorf("get request %s: %w", id, err)
	}
	return models.RequestFromDB(row), nil
}

// Transition moves request id to status to. Moves out of a terminal status,
// and moves lost to a concurrent writer, fail with ErrInvalidTransition and
// change nothing. EXPIRED is refused before expires_at; after it the
// request stays open to its parties until the sweep expires it.
func (l *Ledger) Transition(ctx context.Context, id string, to models.RequestStatus, bookingID string) (models.Request, error) {
	const op = "ledger.transition"

	current, err := l.Get(ctx, id)
	if err != nil {
		return models.Request{}, err
	}
	if !CanTransition(current.Status, to) {
		return models.Request{}, models.Errorf(models.KindInvalidTransition, op, "request is %s", current.Status)
	}

	now := l.clock.Now().UTC()
	if to == models.RequestStatusExpired && now.Before(current.ExpiresAt) {
		return models.Request{}, models.Errorf(models.KindInvalidTransition, op, "request does not expire until %s", current.ExpiresAt.Format(time.RFC3339))
	}

	params := dbgen.TransitionRequestParams{
		ToStatus:   string(to),
		UpdatedAt:  now,
		ID:         id,
		FromStatus: string(current.Status),
	}
	if bookingID != "" {
		params.BookingID = sql.NullString{String: bookingID, Valid: true}
	}
	if to == models.RequestStatusAccepted || to == models.RequestStatusRejected {
		params.RespondedAt = sql.NullTime{Time: now, Valid: true}
	}

	n, err := l.q.TransitionRequest(ctx, params)
	if err != nil {
		return models.Request{}, fmt.Errorf("transition request %s: %w", id, err)
	}
	if n == 0 {
		return models.Request{}, models.Errorf(models.KindInvalidTransition, op, "request %s changed concurrently", id)
	}
	return l.Get(ctx, id)
}

// ListExpired returns up to limit PENDING requests whose expires_at is at or
// before now, oldest first.
func (l *Ledger) ListExpired(ctx context.Context, now time.Time, limit int) ([]models.Request, error) {
	rows, err := l.q.ListExpiredRequests(ctx, dbgen.ListExpiredRequestsParams{
		Now:   now.UTC(),
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list expired requests: %w", err)
	}
	return requestsFromRows(rows), nil
}

type Role string

const (
	RoleSent     Role = "sent"
	RoleReceived Role = "received"
)

func (r Role) Valid() bool {
	return r == RoleSent || r == RoleReceived
}

// ListForActor lists requests sent or received by actorID, newest first. An
// empty status lists every status.
func (l *Ledger) ListForActor(ctx context.Context, actorID string, role Role, status models.RequestStatus, limit int) ([]models.Request, error) {
	var (
		rows []dbgen.Request
		err  error
	)
	switch role {
	case RoleSent:
		rows, err = l.q.ListRequestsBySender(ctx, dbgen.ListRequestsBySenderParams{
			ActorID: actorID,
			Status:  string(status),
			Limit:   int64(limit),
		})
	case RoleReceived:
		rows, err = l.q.ListRequestsByReceiver(ctx, dbgen.ListRequestsByReceiverParams{
			ActorID: actorID,
			Status:  string(status),
			Limit:   int64(limit),
		})
	default:
		return nil, models.Errorf(models.KindInvalidInput, "ledger.list", "role must be %q or %q", RoleSent, RoleReceived)
	}
	if err != nil {
		return nil, fmt.Errorf("list %s requests: %w", role, err)
	}
	return requestsFromRows(rows), nil
}

// PurgeTerminalBefore deletes terminal requests last updated before cutoff.
func (l *Ledger) PurgeTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := l.q.DeleteTerminalRequestsBefore(ctx, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge terminal requests: %w", err)
	}
	return n, nil
}

func requestsFromRows(rows []dbgen.Request) []models.Request {
	out := make([]models.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.RequestFromDB(row))
	}
	return out
}
