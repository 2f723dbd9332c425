// Package email notifies the people involved in a scheduling change.
package email

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	dbgen "github.com/codr1/courtgrid/internal/db/generated"
	"github.com/codr1/courtgrid/internal/events"
)

const sendTimeout = 5 * time.Second

// ContactStore resolves actor ids to email addresses.
type ContactStore interface {
	GetActorContact(ctx context.Context, actorID string) (dbgen.ActorContact, error)
}

// Notifier is the events.Publisher that turns domain events into emails.
// Lookups run inline; sends run in the background so a slow mail provider
// never holds up the caller.
type Notifier struct {
	contacts ContactStore
	mailer   Mailer
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewNotifier(contacts ContactStore, mailer Mailer) *Notifier {
	return &Notifier{contacts: contacts, mailer: mailer, timeout: sendTimeout}
}

func (n *Notifier) Name() string { return "email" }

func (n *Notifier) Publish(ctx context.Context, e events.Event) error {
	if n == nil || n.mailer == nil || n.contacts == nil {
		return nil
	}

	notes, err := buildNotifications(e)
	if err != nil {
		return err
	}

	logger := log.Ctx(ctx).With().
		Str("component", "email").
		Str("event_type", string(e.Type)).
		Int64("event_id", e.ID).
		Logger()

	for _, note := range notes {
		if note.ActorID == "" {
			continue
		}
		contact, err := n.contacts.GetActorContact(ctx, note.ActorID)
		if errors.Is(err, sql.ErrNoRows) {
			logger.Debug().Str("actor_id", note.ActorID).Msg("No contact on file, skipping email")
			continue
		}
		if err != nil {
			return fmt.Errorf("load contact %s: %w", note.ActorID, err)
		}
		recipient := strings.TrimSpace(contact.Email)
		if recipient == "" {
			continue
		}

		msg := Outgoing{
			To:        recipient,
			Subject:   note.Message.Subject,
			Body:      note.Message.Body,
			EventType: string(e.Type),
		}
		if name := strings.TrimSpace(contact.DisplayName); name != "" {
			msg.Body = fmt.Sprintf("Hi %s,\n\n%s", name, msg.Body)
		}

		n.wg.Add(1)
		go func(actorID string) {
			defer n.wg.Done()
			// The caller's context ends with its request; the send only
			// keeps its values.
			sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
			defer cancel()
			if err := n.mailer.Deliver(sendCtx, msg); err != nil {
				logger.Error().Err(err).Str("actor_id", actorID).Msg("Failed to send notification email")
			}
		}(note.ActorID)
	}
	return nil
}

// Wait blocks until every in-flight send has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
