package middleware

import (
	"context"

	"pethost/internal/app/commands"
	"pethost/internal/app/policies"
)

// LockResolver names the resources a command writes. It runs before the
// unit of work opens, so the lock covers the whole check-then-commit window.
type LockResolver func(ctx context.Context, cmd commands.Command) ([]string, error)

func Locking(locker policies.Locker, resolve LockResolver) CommandMiddleware {
	if locker == nil || resolve == nil {
		panic("middleware: locker and resolver required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			keys, err := resolve(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if len(keys) == 0 {
				return next.Dispatch(ctx, cmd)
			}
			release, err := locker.Acquire(ctx, keys...)
			if err != nil {
				return nil, err
			}
			// an unreleased key expires with its TTL
			defer func() { _ = release(context.WithoutCancel(ctx)) }()
			return next.Dispatch(ctx, cmd)
		})
	}
}
