package middleware

import (
	"context"
	"strings"

	"pethost/internal/app/commands"
	"pethost/internal/domain/shared/errs"
)

var ErrActorRequired = errs.New(errs.Forbidden, "middleware: authenticated caller required")

// ActorCommand is implemented by commands issued on behalf of a user.
type ActorCommand interface {
	commands.Command
	Actor() string
}

type Authorizer interface {
	Authorize(ctx context.Context, message any) error
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, message any) error

func (f AuthorizerFunc) Authorize(ctx context.Context, message any) error {
	return f(ctx, message)
}

// RequireActor rejects actor commands that carry no caller id. Ownership
// checks stay with the handlers that load the aggregate.
var RequireActor = AuthorizerFunc(func(_ context.Context, message any) error {
	cmd, ok := message.(ActorCommand)
	if !ok {
		return nil
	}
	if strings.TrimSpace(cmd.Actor()) == "" {
		return ErrActorRequired
	}
	return nil
})

func Authorization(a Authorizer) CommandMiddleware {
	if a == nil {
		panic("middleware: authorizer required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := a.Authorize(ctx, cmd); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}
