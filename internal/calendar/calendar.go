// Package calendar records which (resource, date, hour) slots are occupied and
// by whom. A slot is free when it has no occupancy row.
package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/clock"
	dbgen "github.com/codr1/courtgrid/internal/db/generated"
	"github.com/codr1/courtgrid/internal/models"
)

// Calendar reads and writes slot occupancy through q. Bind it to a
// transaction-scoped Querier when occupancy must commit together with other
// writes.
type Calendar struct {
	q     dbgen.Querier
	clock clock.Clock
}

func New(q dbgen.Querier, c clock.Clock) *Calendar {
	return &Calendar{q: q, clock: clock.OrSystem(c)}
}

// Occupancy is the current holder of one slot.
type Occupancy struct {
	Key    models.SlotKey
	State  models.OccupancyState
	Holder models.Holder
}

// Get returns the occupancy of key, or ok=false when the slot is free.
func (c *Calendar) Get(ctx context.Context, key models.SlotKey) (Occupancy, bool, error) {
	row, err := c.q.GetOccupancy(ctx, dbgen.GetOccupancyParams{
		ResourceID: key.ResourceID,
		SlotDate:   key.Date,
		Hour:       int64(key.Hour),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Occupancy{}, false, nil
	}
	if err != nil {
		return Occupancy{}, false, fmt.Errorf("get occupancy %s: %w", key, err)
	}
	return occupancyFromRow(row), true, nil
}

// IsFree reports whether no confirmed booking and no held request occupy key.
func (c *Calendar) IsFree(ctx context.Context, key models.SlotKey) (bool, error) {
	_, occupied, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return !occupied, nil
}

// Occupy marks every hour of span as held or confirmed by holder. It is all or
// nothing: if any hour is already occupied the hours claimed by this call are
// released again and ErrSlotTaken is returned. Hours outside the resource's
// operating window fail with ErrInvalidSlot before anything is written.
func (c *Calendar) Occupy(ctx context.Context, res models.Resource, span models.Span, holder models.Holder, state models.OccupancyState) error {
	if span.ResourceID != res.ID {
		return models.Errorf(models.KindResourceUnknown, "calendar.occupy", "span resource %q does not match %q", span.ResourceID, res.ID)
	}
	if !res.InWindow(span.StartHour, span.Hours) {
		return models.Errorf(models.KindOutsideOperatingWindow, "calendar.occupy",
			"%s-%s is outside %s-%s", models.FormatHour(span.StartHour), models.FormatHour(span.EndHour()),
			models.FormatHour(res.OpenHour), models.FormatHour(res.CloseHour))
	}
	if state != models.OccupancyHeld && state != models.OccupancyConfirmed {
		return models.Errorf(models.KindInvalidInput, "calendar.occupy", "cannot occupy a slot as %s", state)
	}

	now := c.clock.Now().UTC()
	claimed := make([]models.SlotKey, 0, span.Hours)
	for _, key := range span.Keys() {
		n, err := c.q.InsertOccupancy(ctx, dbgen.InsertOccupancyParams{
			ResourceID: key.ResourceID,
			SlotDate:   key.Date,
			Hour:       int64(key.Hour),
			State:      string(state),
			HolderKind: string(holder.Kind),
			HolderID:   holder.ID,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			c.releaseKeys(ctx, claimed, holder.ID)
			return fmt.Errorf("occupy %s: %w", key, err)
		}
		if n == 0 {
			c.releaseKeys(ctx, claimed, holder.ID)
			return models.Errorf(models.KindSlotTaken, "calendar.occupy", "%s %s is already taken", key.Date, models.FormatHour(key.Hour))
		}
		claimed = append(claimed, key)
	}
	return nil
}

// Release frees every hour of span held by holderID. If any hour is not held
// by holderID nothing is released and ErrNotFound is returned.
func (c *Calendar) Release(ctx context.Context, span models.Span, holderID string) error {
	held, err := c.HeldBy(ctx, span, holderID)
	if err != nil {
		return err
	}
	if !held {
		return models.Errorf(models.KindNotFound, "calendar.release", "slots are not held by %s", holderID)
	}
	for _, key := range span.Keys() {
		if _, err := c.q.DeleteOccupancy(ctx, deleteParams(key, holderID)); err != nil {
			return fmt.Errorf("release %s: %w", key, err)
		}
	}
	return nil
}

// Confirm upgrades the hours held by requestID to CONFIRMED under bookingID.
// ErrNotFound means the request no longer holds every hour.
func (c *Calendar) Confirm(ctx context.Context, span models.Span, requestID, bookingID string) error {
	now := c.clock.Now().UTC()
	for _, key := range span.Keys() {
		n, err := c.q.ConfirmOccupancy(ctx, dbgen.ConfirmOccupancyParams{
			BookingID:  bookingID,
			UpdatedAt:  now,
			ResourceID: key.ResourceID,
			SlotDate:   key.Date,
			Hour:       int64(key.Hour),
			RequestID:  requestID,
		})
		if err != nil {
			return fmt.Errorf("confirm %s: %w", key, err)
		}
		if n == 0 {
			return models.Errorf(models.KindNotFound, "calendar.confirm", "%s %s is not held by request %s", key.Date, models.FormatHour(key.Hour), requestID)
		}
	}
	return nil
}

// HeldBy reports whether holderID occupies every hour of span.
func (c *Calendar) HeldBy(ctx context.Context, span models.Span, holderID string) (bool, error) {
	for _, key := range span.Keys() {
		occ, ok, err := c.Get(ctx, key)
		if err != nil {
			return false, err
		}
		if !ok || occ.Holder.ID != holderID {
			return false, nil
		}
	}
	return true, nil
}

// ListSlots projects the calendar of res for every operating hour from..to
// inclusive. Holder is filled in for occupied slots; callers decide whether a
// viewer may see it.
func (c *Calendar) ListSlots(ctx context.Context, res models.Resource, from, to string) ([]models.SlotView, error) {
	dates, err := models.DatesBetween(from, to, 0)
	if err != nil {
		return nil, models.WrapError(models.KindInvalidInput, "calendar.list_slots", err)
	}

	rows, err := c.q.ListOccupanciesInRange(ctx, dbgen.ListOccupanciesInRangeParams{
		ResourceID: res.ID,
		FromDate:   dates[0],
		ToDate:     dates[len(dates)-1],
	})
	if err != nil {
		return nil, fmt.Errorf("list occupancies: %w", err)
	}
	occupied := make(map[models.SlotKey]Occupancy, len(rows))
	for _, row := range rows {
		occ := occupancyFromRow(row)
		occupied[occ.Key] = occ
	}

	hours := res.Hours()
	views := make([]models.SlotView, 0, len(dates)*len(hours))
	for _, date := range dates {
		for _, hour := range hours {
			view := models.SlotView{
				Date:      date,
				Hour:      hour,
				StartTime: models.FormatHour(hour),
				Status:    models.OccupancyFree,
			}
			if occ, ok := occupied[models.SlotKey{ResourceID: res.ID, Date: date, Hour: hour}]; ok {
				holder := occ.Holder
				view.Status = occ.State
				view.Holder = &holder
			}
			views = append(views, view)
		}
	}
	return views, nil
}

// releaseKeys undoes a partial Occupy. Callers inside a transaction also get
// a rollback; outside one this is the only cleanup.
func (c *Calendar) releaseKeys(ctx context.Context, keys []models.SlotKey, holderID string) {
	for _, key := range keys {
		if _, err := c.q.DeleteOccupancy(ctx, deleteParams(key, holderID)); err != nil {
			log.Ctx(ctx).Warn().Err(err).
				Str("component", "calendar").
				Str("holder_id", holderID).
				Str("slot", key.String()).
				Msg("Failed to release partially occupied slot")
		}
	}
}

func deleteParams(key models.SlotKey, holderID string) dbgen.DeleteOccupancyParams {
	return dbgen.DeleteOccupancyParams{
		ResourceID: key.ResourceID,
		SlotDate:   key.Date,
		Hour:       int64(key.Hour),
		HolderID:   holderID,
	}
}

func occupancyFromRow(row dbgen.SlotOccupancy) Occupancy {
	return Occupancy{
		Key: models.SlotKey{
			ResourceID: row.ResourceID,
			Date:       row.SlotDate,
			Hour:       int(row.Hour),
		},
		State: models.OccupancyState(row.State),
		Holder: models.Holder{
			Kind: models.HolderKind(row.HolderKind),
			ID:   row.HolderID,
		},
	}
}
