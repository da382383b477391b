package middleware

import (
	"context"

	"github.com/angelmondragon/ims-backend/pkg/auth"
)

type contextKey string

const ctxActor contextKey = "actor"

// WithActor stores the resolved caller identity on the context.
func WithActor(ctx context.Context, actor auth.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}

// ActorFromContext returns the caller identity placed by Auth.
func ActorFromContext(ctx context.Context) (auth.Context, bool) {
	if ctx == nil {
		return auth.Context{}, false
	}
	actor, ok := ctx.Value(ctxActor).(auth.Context)
	return actor, ok
}

func UserIDFromContext(ctx context.Context) string {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return ""
	}
	return actor.UserID.String()
}
