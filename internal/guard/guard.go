// Package guard decides whether a booking or request proposal may proceed.
// It only reads; the orchestrator performs the writes.
package guard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codr1/courtgrid/internal/calendar"
	"github.com/codr1/courtgrid/internal/clock"
	dbgen "github.com/codr1/courtgrid/internal/db/generated"
	"github.com/codr1/courtgrid/internal/models"
)

// DefaultMaxSpanHours caps how many consecutive hours one proposal may cover.
const DefaultMaxSpanHours = 4

// Proposal is a request or direct booking awaiting validation. ReceiverID is
// empty for direct bookings.
type Proposal struct {
	SenderID    string
	ReceiverID  string
	Kind        models.RequestKind
	ResourceRef string
	Date        string
	StartHour   int
	Hours       int
}

type Guard struct {
	q        dbgen.Querier
	calendar *calendar.Calendar
	clock    clock.Clock
	maxSpan  int
}

func New(q dbgen.Querier, c clock.Clock, maxSpanHours int) *Guard {
	if maxSpanHours <= 0 {
		maxSpanHours = DefaultMaxSpanHours
	}
	c = clock.OrSystem(c)
	return &Guard{
		q:        q,
		calendar: calendar.New(q, c),
		clock:    c,
		maxSpan:  maxSpanHours,
	}
}

// ResolveResource finds the resource a proposal of kind refers to. ref may be
// a resource ID or slug. Invites with no ref target the receiver's team
// calendar.
func (g *Guard) ResolveResource(ctx context.Context, kind models.RequestKind, ref, receiverID string) (models.Resource, error) {
	const op = "guard.resolve_resource"

	var (
		row dbgen.Resource
		err error
	)
	switch {
	case ref != "":
		row, err = g.q.GetResource(ctx, ref)
		if errors.Is(err, sql.ErrNoRows) {
			row, err = g.q.GetResourceBySlug(ctx, ref)
		}
	case kind.IsInvite() && receiverID != "":
		row, err = g.q.GetTeamResourceByOwner(ctx, receiverID)
	default:
		return models.Resource{}, models.NewError(models.KindResourceUnknown, op, "resource is required")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.Resource{}, models.Errorf(models.KindResourceUnknown, op, "resource %q not found", ref)
	}
	if err != nil {
		return models.Resource{}, fmt.Errorf("resolve resource %q: %w", ref, err)
	}

	res := models.ResourceFromDB(row)
	if want := kind.ResourceKind(); res.Kind != want {
		return models.Resource{}, models.Errorf(models.KindResourceUnknown, op, "%s needs a %s resource, %s is %s", kind, want, res.Slug, res.Kind)
	}
	return res, nil
}

// Validate checks p and returns the resolved resource when it may proceed.
// Rejections carry the kinds SlotTaken, OutsideOperatingWindow,
// SelfReferential, ResourceUnknown or InvalidInput.
func (g *Guard) Validate(ctx context.Context, p Proposal) (models.Resource, error) {
	const op = "guard.validate"

	if !p.Kind.Valid() {
		return models.Resource{}, models.Errorf(models.KindInvalidInput, op, "unknown request kind %q", p.Kind)
	}
	if p.ReceiverID != "" && p.SenderID == p.ReceiverID {
		return models.Resource{}, models.NewError(models.KindSelfReferential, op, "sender and receiver must differ")
	}
	if p.Hours < 1 || p.Hours > g.maxSpan {
		return models.Resource{}, models.Errorf(models.KindInvalidInput, op, "hours must be between 1 and %d", g.maxSpan)
	}

	res, err := g.ResolveResource(ctx, p.Kind, p.ResourceRef, p.ReceiverID)
	if err != nil {
		return models.Resource{}, err
	}
	if p.Kind.IsInvite() && res.OwnerID == p.SenderID {
		return models.Resource{}, models.NewError(models.KindSelfReferential, op, "cannot invite your own team calendar")
	}

	span := models.Span{ResourceID: res.ID, Date: p.Date, StartHour: p.StartHour, Hours: p.Hours}
	if err := g.checkWindow(res, span); err != nil {
		return models.Resource{}, err
	}

	for _, key := range span.Keys() {
		free, err := g.calendar.IsFree(ctx, key)
		if err != nil {
			return models.Resource{}, err
		}
		if !free {
			return models.Resource{}, models.Errorf(models.KindSlotTaken, op, "%s %s is already taken", key.Date, models.FormatHour(key.Hour))
		}
	}
	return res, nil
}

// checkWindow rejects spans outside the operating hours or already started.
func (g *Guard) checkWindow(res models.Resource, span models.Span) error {
	const op = "guard.validate"

	if !res.InWindow(span.StartHour, span.Hours) {
		return models.Errorf(models.KindOutsideOperatingWindow, op, "%s is open %s-%s",
			res.Name, models.FormatHour(res.OpenHour), models.FormatHour(res.CloseHour))
	}
	start, err := span.Start(res.Location())
	if err != nil {
		return models.WrapError(models.KindInvalidInput, op, err)
	}
	if !start.After(g.clock.Now()) {
		return models.Errorf(models.KindOutsideOperatingWindow, op, "%s %s has already started", span.Date, models.FormatHour(span.StartHour))
	}
	return nil
}
