// cmd/server/app.go
package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codr1/courtgrid/internal/booking"
	"github.com/codr1/courtgrid/internal/clock"
	"github.com/codr1/courtgrid/internal/config"
	"github.com/codr1/courtgrid/internal/db"
	"github.com/codr1/courtgrid/internal/email"
	"github.com/codr1/courtgrid/internal/events"
	"github.com/codr1/courtgrid/internal/mq"
	"github.com/codr1/courtgrid/internal/ratelimit"
	"github.com/codr1/courtgrid/internal/slotlock"
	"github.com/codr1/courtgrid/internal/websocket"
)

// app holds the wired services shared by the HTTP server and the scheduler.
type app struct {
	database     *db.DB
	orchestrator *booking.Orchestrator
	hub          *websocket.Hub
	clock        clock.Clock
	amqp         *mq.Publisher
	notifier     *email.Notifier
	limiter      *ratelimit.Limiter
	trustProxy   bool
}

func newApp(ctx context.Context, cfg *config.Config, database *db.DB, clk clock.Clock) (*app, error) {
	a := &app{
		database: database,
		hub:      websocket.NewHub(),
		clock:    clock.OrSystem(clk),
	}
	a.trustProxy = cfg.App.TrustProxy
	a.limiter = ratelimit.New(&ratelimit.Config{
		MaxPerHour:   cfg.Scheduling.MaxRequestsPerHour,
		MaxIPPerHour: cfg.Scheduling.MaxIPRequestsPerHour,
		Clock:        a.clock,
	})

	dispatcher := events.NewDispatcher(events.LogPublisher{}, websocket.NewBroadcaster(a.hub))

	if cfg.Events.AMQPURL != "" {
		pub, err := mq.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			return nil, fmt.Errorf("connect event broker: %w", err)
		}
		a.amqp = pub
		dispatcher.Register(pub)
		log.Info().Str("exchange", cfg.Events.Exchange).Msg("Publishing events to RabbitMQ")
	}

	if cfg.Email.Enabled() {
		ses, err := email.NewSES(ctx, cfg.Email)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("init ses: %w", err)
		}
		a.notifier = email.NewNotifier(database.Queries, ses)
		dispatcher.Register(a.notifier)
		log.Info().Str("region", cfg.Email.Region).Msg("Email notifications enabled")
	} else {
		log.Info().Msg("Email notifications disabled")
	}

	s := cfg.Scheduling
	orch, err := booking.NewOrchestrator(database, booking.Options{
		Locks:      slotlock.New(&slotlock.Config{MaxWait: s.LockWait}),
		Dispatcher: dispatcher,
		Clock:      a.clock,
		Config: &booking.Config{
			RequestTTL:   s.RequestTTL,
			MaxSpanHours: s.MaxSpanHours,
			MaxListDays:  s.MaxListDays,
		},
	})
	if err != nil {
		a.close()
		return nil, err
	}
	a.orchestrator = orch
	return a, nil
}

func (a *app) close() {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.notifier != nil {
		a.notifier.Wait()
	}
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close event broker connection")
		}
	}
}
