package middleware

import (
	"context"
	"fmt"

	"pethost/internal/app/commands"
	"pethost/internal/app/outbox"
)

// OutboxFlush flushes buffered events once the handler succeeded. It sits
// inside Transaction, so a failed flush rolls the command back.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, fmt.Errorf("outbox flush after %s: %w", cmd.Key(), err)
			}
			return res, nil
		})
	}
}
