package shared

import (
	"context"
	"lockngo/shared/constant"
	"math"
	"strings"
)

const cacheKeySeparator = ":"

// Actor is the caller on whose behalf an operation runs.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsZero() bool {
	return a.ID == constant.Empty
}

// ActorFromContext reads the caller identity placed in the context by the auth middleware.
func ActorFromContext(ctx context.Context) Actor {
	id, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return Actor{ID: id, Role: role}
}

// WithActor stores the caller identity in ctx.
func WithActor(ctx context.Context, id, role string) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, id)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// RoundCents rounds a monetary amount to two decimals.
func RoundCents(amount float64) float64 {
	return math.Round(amount*constant.CentsPerUnit) / constant.CentsPerUnit
}
