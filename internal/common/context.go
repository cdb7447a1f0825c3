package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// ActorIDKey carries the authenticated user's id through a request.
const ActorIDKey contextKey = "actorID"

// WithActorID returns a context carrying the acting user's id.
func WithActorID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ActorIDKey, id)
}

// ActorIDFromContext extracts the acting user's id. Returns nil when the
// context carries no actor, which is how system-initiated work runs.
func ActorIDFromContext(ctx context.Context) *uuid.UUID {
	id, ok := ctx.Value(ActorIDKey).(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
