package booking

import (
	"context"
	"log/slog"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/uow"
	domainbooking "pethost/internal/domain/booking"
	"pethost/internal/domain/trust"
)

const (
	confirmBookingKey  = "booking.confirm"
	startBookingKey    = "booking.start"
	completeBookingKey = "booking.complete"
	cancelBookingKey   = "booking.cancel"
)

type ConfirmBookingCommand struct {
	ActorID   string `validate:"required"`
	BookingID string `validate:"required"`
}

func (c ConfirmBookingCommand) Key() string             { return confirmBookingKey }
func (c ConfirmBookingCommand) Actor() string           { return c.ActorID }
func (c ConfirmBookingCommand) ScopedBookingID() string { return c.BookingID }

type StartBookingCommand struct {
	ActorID   string `validate:"required"`
	BookingID string `validate:"required"`
}

func (c StartBookingCommand) Key() string             { return startBookingKey }
func (c StartBookingCommand) Actor() string           { return c.ActorID }
func (c StartBookingCommand) ScopedBookingID() string { return c.BookingID }

type CompleteBookingCommand struct {
	ActorID   string `validate:"required"`
	BookingID string `validate:"required"`
}

func (c CompleteBookingCommand) Key() string             { return completeBookingKey }
func (c CompleteBookingCommand) Actor() string           { return c.ActorID }
func (c CompleteBookingCommand) ScopedBookingID() string { return c.BookingID }

type CancelBookingCommand struct {
	ActorID   string `validate:"required"`
	BookingID string `validate:"required"`
}

func (c CancelBookingCommand) Key() string             { return cancelBookingKey }
func (c CancelBookingCommand) Actor() string           { return c.ActorID }
func (c CancelBookingCommand) ScopedBookingID() string { return c.BookingID }

// LifecycleHandler moves a booking along the status table. Every
// transition it performs changes the host completion rate.
type LifecycleHandler struct {
	Events support.Events
	Clock  support.Clock
	Logger *slog.Logger
}

type transitionFunc func(p participant, b *domainbooking.Booking) error

func (h *LifecycleHandler) run(ctx context.Context, bookingID, actorID string, step transitionFunc) (*dto.Booking, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := loadParticipant(ctx, unit, bookingID, actorID)
	if err != nil {
		return nil, err
	}
	b := p.booking
	previous := b.Status
	if err := step(p, b); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := h.Events.Publish(ctx, b); err != nil {
		return nil, err
	}
	host, granted, err := support.RecomputeTrust(ctx, unit, h.Events, b.HostID, trust.TriggerCompletion, h.Clock)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking status changed", "booking_id", b.ID, "from", previous, "to", b.Status, "actor", actorID)
		if granted {
			h.Logger.Info("super host granted", "host_id", host.ID)
		}
	}
	reviewed := false
	if b.Status == domainbooking.StatusCompleted {
		if reviewed, err = hasReview(ctx, unit, b.ID); err != nil {
			return nil, err
		}
	}
	result := dto.MapBooking(b, reviewed, h.Clock.Now())
	return &result, nil
}

type ConfirmBookingHandler struct{ *LifecycleHandler }

func (h ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*dto.Booking, error) {
	return h.run(ctx, cmd.BookingID, cmd.ActorID, func(p participant, b *domainbooking.Booking) error {
		if err := p.requireOwner(); err != nil {
			return err
		}
		return b.Confirm(h.Clock.Now())
	})
}

type StartBookingHandler struct{ *LifecycleHandler }

func (h StartBookingHandler) Handle(ctx context.Context, cmd StartBookingCommand) (*dto.Booking, error) {
	return h.run(ctx, cmd.BookingID, cmd.ActorID, func(p participant, b *domainbooking.Booking) error {
		if err := p.requireHost(); err != nil {
			return err
		}
		return b.Start(h.Clock.Now())
	})
}

type CompleteBookingHandler struct{ *LifecycleHandler }

func (h CompleteBookingHandler) Handle(ctx context.Context, cmd CompleteBookingCommand) (*dto.Booking, error) {
	return h.run(ctx, cmd.BookingID, cmd.ActorID, func(p participant, b *domainbooking.Booking) error {
		if err := p.requireHost(); err != nil {
			return err
		}
		return b.Complete(h.Clock.Now())
	})
}

type CancelBookingHandler struct{ *LifecycleHandler }

func (h CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*dto.Booking, error) {
	return h.run(ctx, cmd.BookingID, cmd.ActorID, func(p participant, b *domainbooking.Booking) error {
		if err := p.requireAny(); err != nil {
			return err
		}
		return b.Cancel(cmd.ActorID, h.Clock.Now())
	})
}

var (
	_ commands.Handler[ConfirmBookingCommand, *dto.Booking]  = ConfirmBookingHandler{}
	_ commands.Handler[StartBookingCommand, *dto.Booking]    = StartBookingHandler{}
	_ commands.Handler[CompleteBookingCommand, *dto.Booking] = CompleteBookingHandler{}
	_ commands.Handler[CancelBookingCommand, *dto.Booking]   = CancelBookingHandler{}
)
