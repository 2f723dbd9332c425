package booking

import (
	"context"
	"errors"

	"github.com/codr1/courtgrid/internal/db"
	"github.com/codr1/courtgrid/internal/models"
	"github.com/codr1/courtgrid/internal/slotlock"
)

// translate gives every failure leaving the orchestrator a stable kind. Raw
// store errors become StoreUnavailable; a unique constraint hit on occupancy
// or booking slots means another writer took the slot.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}

	var domainErr *models.Error
	switch {
	case errors.As(err, &domainErr):
		return domainErr
	case errors.Is(err, slotlock.ErrBusy):
		return &models.Error{Kind: models.KindSlotBusy, Op: op, Message: models.ErrSlotBusy.Message, Err: err}
	case db.IsUniqueViolation(err):
		return &models.Error{Kind: models.KindSlotTaken, Op: op, Message: models.ErrSlotTaken.Message, Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &models.Error{Kind: models.KindStoreUnavailable, Op: op, Message: "operation timed out, retry later", Err: err}
	default:
		return &models.Error{Kind: models.KindStoreUnavailable, Op: op, Message: models.ErrStoreUnavailable.Message, Err: err}
	}
}

func unauthorized(op, format string, args ...any) error {
	return models.Errorf(models.KindUnauthorized, op, format, args...)
}

func invalidInput(op, format string, args ...any) error {
	return models.Errorf(models.KindInvalidInput, op, format, args...)
}

// tolerateNotFound drops a NotFound from a release so closing a request whose
// holds are already gone still succeeds.
func tolerateNotFound(err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}
