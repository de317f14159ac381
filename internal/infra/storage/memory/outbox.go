package memory

import (
	"context"
	"log/slog"

	appoutbox "pethost/internal/app/outbox"
	"pethost/internal/app/uow"
)

// Outbox stages records in the unit of work of the command, so they reach
// the Store only when that unit commits.
type Outbox struct {
	Logger *slog.Logger
}

func NewOutbox(logger *slog.Logger) *Outbox {
	return &Outbox{Logger: logger}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return uow.ErrUnitOfWorkMissing
	}
	mem, ok := unit.(*Unit)
	if !ok {
		return ErrFactoryMisconfigured
	}
	if err := mem.writable(); err != nil {
		return err
	}
	mem.events = append(mem.events, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	if o.Logger == nil {
		return nil
	}
	if unit, ok := uow.FromContext(ctx); ok {
		if mem, ok := unit.(*Unit); ok {
			for _, rec := range mem.events {
				o.Logger.Debug("event staged", "name", rec.Name, "aggregate", rec.Aggregate)
			}
		}
	}
	return nil
}
