// Package booking is the single entry point for every scheduling change. Each
// mutation holds the affected slot locks, runs validation, occupancy, ledger
// and outbox writes in one transaction, and dispatches its event after the
// locks are released.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/calendar"
	"github.com/codr1/courtgrid/internal/clock"
	"github.com/codr1/courtgrid/internal/db"
	dbgen "github.com/codr1/courtgrid/internal/db/generated"
	"github.com/codr1/courtgrid/internal/events"
	"github.com/codr1/courtgrid/internal/guard"
	"github.com/codr1/courtgrid/internal/ledger"
	"github.com/codr1/courtgrid/internal/models"
	"github.com/codr1/courtgrid/internal/slotlock"
)

const (
	defaultMaxListDays = 31
	defaultListLimit   = 100
	maxListLimit       = 500
)

type Config struct {
	RequestTTL   time.Duration
	MaxSpanHours int
	MaxListDays  int
}

func DefaultConfig() Config {
	return Config{
		RequestTTL:   ledger.DefaultTTL,
		MaxSpanHours: guard.DefaultMaxSpanHours,
		MaxListDays:  defaultMaxListDays,
	}
}

type Orchestrator struct {
	db     *db.DB
	locks  *slotlock.Manager
	events *events.Dispatcher
	clock  clock.Clock
	config Config
}

// Options carries the optional collaborators of an Orchestrator. Nil fields
// fall back to defaults.
type Options struct {
	Locks      *slotlock.Manager
	Dispatcher *events.Dispatcher
	Clock      clock.Clock
	Config     *Config
}

func NewOrchestrator(database *db.DB, opts Options) (*Orchestrator, error) {
	if database == nil {
		return nil, errors.New("booking orchestrator requires a database")
	}

	cfg := DefaultConfig()
	if opts.Config != nil {
		if opts.Config.RequestTTL > 0 {
			cfg.RequestTTL = opts.Config.RequestTTL
		}
		if opts.Config.MaxSpanHours > 0 {
			cfg.MaxSpanHours = opts.Config.MaxSpanHours
		}
		if opts.Config.MaxListDays > 0 {
			cfg.MaxListDays = opts.Config.MaxListDays
		}
	}
	locks := opts.Locks
	if locks == nil {
		locks = slotlock.New(nil)
	}
	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewDispatcher()
	}

	return &Orchestrator{
		db:     database,
		locks:  locks,
		events: dispatcher,
		clock:  clock.OrSystem(opts.Clock),
		config: cfg,
	}, nil
}

// scope binds the calendar, ledger and guard to one query handle, usually a
// transaction.
type scope struct {
	q        dbgen.Querier
	calendar *calendar.Calendar
	ledger   *ledger.Ledger
	guard    *guard.Guard
}

func (o *Orchestrator) scope(q dbgen.Querier) scope {
	return scope{
		q:        q,
		calendar: calendar.New(q, o.clock),
		ledger:   ledger.New(q, o.clock, o.config.RequestTTL),
		guard:    guard.New(q, o.clock, o.config.MaxSpanHours),
	}
}

// withSlots locks keys, runs fn in a transaction and stores the event fn
// returns in the outbox of that same transaction. The event is dispatched
// only after commit and after the locks are released.
func (o *Orchestrator) withSlots(ctx context.Context, op string, keys []models.SlotKey, fn func(s scope) (events.Event, error)) error {
	release, err := o.locks.Acquire(ctx, keys...)
	if err != nil {
		return translate(op, err)
	}

	var stored events.Event
	err = o.db.RunInTx(ctx, func(txdb *db.DB) error {
		evt, err := fn(o.scope(txdb.Queries))
		if err != nil {
			return err
		}
		stored, err = events.Append(ctx, txdb.Queries, evt)
		return err
	})
	release()
	if err != nil {
		return translate(op, err)
	}

	o.events.Dispatch(ctx, stored)
	return nil
}

// checkHours bounds a span before its lock keys are built.
func (o *Orchestrator) checkHours(op string, hours int) error {
	if hours < 1 || hours > o.config.MaxSpanHours {
		return invalidInput(op, "hours must be between 1 and %d", o.config.MaxSpanHours)
	}
	return nil
}

func (o *Orchestrator) now() time.Time {
	return o.clock.Now().UTC()
}

func componentLogger(ctx context.Context, op string) *zerolog.Logger {
	logger := log.Ctx(ctx).With().
		Str("component", "booking_orchestrator").
		Str("op", op).
		Logger()
	return &logger
}
