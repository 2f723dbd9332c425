// Package authz carries the authenticated caller through request contexts.
// Identity is established upstream; this service only trusts the actor id
// the gateway forwards.
package authz

import (
	"context"
	"errors"
	"strings"
)

// ActorHeader is set by the authentication gateway.
const ActorHeader = "X-Actor-ID"

// maxActorIDLength bounds identifiers accepted from the gateway.
const maxActorIDLength = 128

var ErrUnauthenticated = errors.New("unauthenticated")

type actorContextKey struct{}

func ContextWithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actorID)
}

// ActorFromContext returns the caller's actor id, or "" when the request is
// anonymous.
func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	actorID, _ := ctx.Value(actorContextKey{}).(string)
	return actorID
}

// RequireActor returns ErrUnauthenticated when no actor is in ctx.
func RequireActor(ctx context.Context) (string, error) {
	actorID := ActorFromContext(ctx)
	if actorID == "" {
		return "", ErrUnauthenticated
	}
	return actorID, nil
}

// NormalizeActorID trims a header value and rejects ids that are empty,
// oversized or contain control characters.
func NormalizeActorID(raw string) (string, bool) {
	actorID := strings.TrimSpace(raw)
	if actorID == "" || len(actorID) > maxActorIDLength {
		return "", false
	}
	for _, r := range actorID {
		if r < 0x20 || r == 0x7f {
			return "", false
		}
	}
	return actorID, true
}
