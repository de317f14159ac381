package support

import (
	"context"

	"pethost/internal/app/outbox"
)

// Events moves aggregate events into the outbox of the current command.
type Events struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

// Publish drains every aggregate. Without an outbox the events are dropped.
func (e Events) Publish(ctx context.Context, aggregates ...outbox.Recorder) error {
	if e.Outbox == nil {
		for _, agg := range aggregates {
			agg.ClearEvents()
		}
		return nil
	}
	return outbox.Drain(ctx, e.Outbox, e.Encoder, aggregates...)
}
