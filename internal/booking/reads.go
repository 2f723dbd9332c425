package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/codr1/courtgrid/internal/db"
	dbgen "github.com/codr1/courtgrid/internal/db/generated"
	"github.com/codr1/courtgrid/internal/events"
	"github.com/codr1/courtgrid/internal/models"
)

// ListSlots returns the slot grid of a resource for from..to inclusive.
// Holders are only shown to the resource owner and to the parties of the
// request or booking holding the slot.
func (o *Orchestrator) ListSlots(ctx context.Context, resourceRef, from, to, viewerID string) ([]models.SlotView, error) {
	const op = "booking.list_slots"

	dates, err := models.DatesBetween(from, to, o.config.MaxListDays)
	if err != nil {
		return nil, models.WrapError(models.KindInvalidInput, op, err)
	}

	res, err := o.GetResource(ctx, resourceRef)
	if err != nil {
		return nil, err
	}
	views, err := o.scope(o.db.Queries).calendar.ListSlots(ctx, res, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, translate(op, err)
	}
	if viewerID != "" && viewerID == res.OwnerID {
		return views, nil
	}

	visible := make(map[models.Holder]bool)
	for i := range views {
		holder := views[i].Holder
		if holder == nil {
			continue
		}
		show, ok := visible[*holder]
		if !ok {
			show, err = o.holderVisible(ctx, *holder, viewerID)
			if err != nil {
				return nil, translate(op, err)
			}
			visible[*holder] = show
		}
		if !show {
			views[i].Holder = nil
		}
	}
	return views, nil
}

func (o *Orchestrator) holderVisible(ctx context.Context, holder models.Holder, viewerID string) (bool, error) {
	if viewerID == "" {
		return false, nil
	}
	switch holder.Kind {
	case models.HolderRequest:
		req, err := o.scope(o.db.Queries).ledger.Get(ctx, holder.ID)
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return req.Involves(viewerID), nil
	case models.HolderBooking:
		b, err := o.getBooking(ctx, o.db.Queries, holder.ID)
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return b.Involves(viewerID), nil
	}
	return false, nil
}

// NewResourceInput registers a facility terrain or a team calendar.
type NewResourceInput struct {
	Name      string
	Kind      models.ResourceKind
	OwnerID   string
	OpenHour  int
	CloseHour int
	Timezone  string
}

// CreateResource stores a resource with a slug derived from its name.
func (o *Orchestrator) CreateResource(ctx context.Context, in NewResourceInput) (models.Resource, error) {
	const op = "booking.create_resource"

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Resource{}, invalidInput(op, "name is required")
	}
	if !in.Kind.Valid() {
		return models.Resource{}, invalidInput(op, "kind must be %s or %s", models.ResourceKindFacility, models.ResourceKindTeam)
	}
	if in.OwnerID == "" {
		return models.Resource{}, unauthorized(op, "owner is required")
	}
	if in.OpenHour < 0 || in.CloseHour > 24 || in.OpenHour >= in.CloseHour {
		return models.Resource{}, invalidInput(op, "operating window must satisfy 0 <= open_hour < close_hour <= 24")
	}
	if in.Timezone == "" {
		in.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(in.Timezone); err != nil {
		return models.Resource{}, invalidInput(op, "unknown timezone %q", in.Timezone)
	}
	resourceSlug := slug.Make(name)
	if resourceSlug == "" {
		return models.Resource{}, invalidInput(op, "name must contain letters or digits")
	}

	now := o.now()
	id := uuid.NewString()
	err := o.db.Queries.CreateResource(ctx, dbgen.CreateResourceParams{
		ID:        id,
		Slug:      resourceSlug,
		Name:      name,
		Kind:      string(in.Kind),
		OwnerID:   in.OwnerID,
		OpenHour:  int64(in.OpenHour),
		CloseHour: int64(in.CloseHour),
		Timezone:  in.Timezone,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if db.IsUniqueViolation(err) {
		return models.Resource{}, invalidInput(op, "a resource named %q already exists", resourceSlug)
	}
	if err != nil {
		return models.Resource{}, translate(op, fmt.Errorf("create resource: %w", err))
	}

	componentLogger(ctx, op).Info().Str("resource_id", id).Str("slug", resourceSlug).Msg("Resource created")
	return o.GetResource(ctx, id)
}

// GetResource finds a resource by ID or slug.
func (o *Orchestrator) GetResource(ctx context.Context, ref string) (models.Resource, error) {
	const op = "booking.get_resource"

	row, err := o.db.Queries.GetResource(ctx, ref)
	if errors.Is(err, sql.ErrNoRows) {
		row, err = o.db.Queries.GetResourceBySlug(ctx, ref)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.Resource{}, models.Errorf(models.KindResourceUnknown, op, "resource %q not found", ref)
	}
	if err != nil {
		return models.Resource{}, translate(op, err)
	}
	return models.ResourceFromDB(row), nil
}

// ListResources lists resources, optionally filtered by kind.
func (o *Orchestrator) ListResources(ctx context.Context, kind models.ResourceKind) ([]models.Resource, error) {
	const op = "booking.list_resources"

	if kind != "" && !kind.Valid() {
		return nil, invalidInput(op, "unknown kind %q", kind)
	}
	rows, err := o.db.Queries.ListResources(ctx, string(kind))
	if err != nil {
		return nil, translate(op, err)
	}
	out := make([]models.Resource, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ResourceFromDB(row))
	}
	return out, nil
}

// ListEvents reads the outbox after the given sequence number.
func (o *Orchestrator) ListEvents(ctx context.Context, afterID int64, limit int) ([]events.Event, error) {
	evts, err := events.ListAfter(ctx, o.db.Queries, afterID, clampLimit(limit))
	if err != nil {
		return nil, translate("booking.list_events", err)
	}
	return evts, nil
}

// PurgeHistory deletes terminal requests and outbox events older than cutoff.
func (o *Orchestrator) PurgeHistory(ctx context.Context, cutoff time.Time) (requests, evts int64, err error) {
	const op = "booking.purge_history"

	err = o.db.RunInTx(ctx, func(txdb *db.DB) error {
		var err error
		requests, err = o.scope(txdb.Queries).ledger.PurgeTerminalBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		evts, err = events.PurgeBefore(ctx, txdb.Queries, cutoff)
		return err
	})
	if err != nil {
		return 0, 0, translate(op, err)
	}
	return requests, evts, nil
}
