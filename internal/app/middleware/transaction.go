package middleware

import (
	"context"
	"log/slog"

	"pethost/internal/app/commands"
	"pethost/internal/app/uow"
)

type TxOptionsProvider func(cmd commands.Command) uow.TxOptions

// Transaction runs each command in its own unit of work. The unit is rolled
// back on any error so a failed command leaves nothing behind. Rollback runs
// even when the request context is already cancelled.
func Transaction(factory uow.UoWFactory, optsProvider TxOptionsProvider, logger *slog.Logger) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			opts := uow.TxOptions{}
			if optsProvider != nil {
				opts = optsProvider(cmd)
			}
			unit, err := factory.Begin(ctx, opts)
			if err != nil {
				return nil, err
			}
			execCtx := uow.Bind(ctx, unit)
			committed := false
			defer func() {
				if committed {
					return
				}
				if err := unit.Rollback(context.WithoutCancel(execCtx)); err != nil && logger != nil {
					logger.Warn("unit of work rollback failed", "command", cmd.Key(), "error", err)
				}
			}()

			res, err := next.Dispatch(execCtx, cmd)
			if err != nil {
				return nil, err
			}
			if err := unit.Commit(execCtx); err != nil {
				return nil, err
			}
			committed = true
			return res, nil
		})
	}
}
