package booking

import (
	"context"
	"log/slog"
	"time"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/policies"
	"pethost/internal/app/uow"
	domainbooking "pethost/internal/domain/booking"
	"pethost/internal/domain/shared/daterange"
)

const updateBookingKey = "booking.update"

// UpdateBookingCommand edits a booking before confirmation. Nil fields are
// left unchanged; dates must be given together.
type UpdateBookingCommand struct {
	ActorID          string `validate:"required"`
	BookingID        string `validate:"required"`
	CheckIn          *time.Time
	CheckOut         *time.Time `validate:"required_with=CheckIn"`
	CareInstructions *string    `validate:"omitempty,max=4000"`
}

func (c UpdateBookingCommand) Key() string             { return updateBookingKey }
func (c UpdateBookingCommand) Actor() string           { return c.ActorID }
func (c UpdateBookingCommand) ScopedBookingID() string { return c.BookingID }

type UpdateBookingHandler struct {
	Pricing policies.PricingPort
	Events  support.Events
	Clock   support.Clock
	Logger  *slog.Logger
}

func (h *UpdateBookingHandler) Handle(ctx context.Context, cmd UpdateBookingCommand) (*dto.Booking, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := loadParticipant(ctx, unit, cmd.BookingID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if err := p.requireAny(); err != nil {
		return nil, err
	}
	b := p.booking
	if !b.Editable() {
		return nil, domainbooking.ErrNotEditable
	}
	now := h.Clock.Now()

	if cmd.CheckIn != nil || cmd.CheckOut != nil {
		if cmd.CheckIn == nil || cmd.CheckOut == nil {
			return nil, daterange.ErrInvalidRange
		}
		dr, err := daterange.New(*cmd.CheckIn, *cmd.CheckOut)
		if err != nil {
			return nil, err
		}
		if !dr.Equal(b.Range) {
			if err := domainbooking.ValidateDateRange(dr, now); err != nil {
				return nil, err
			}
			if err := checkAvailability(ctx, unit, p.host, b.PetID, dr, b.ID); err != nil {
				return nil, err
			}
			price, err := h.Pricing.Quote(ctx, p.host, b.PetSize, dr, b.AddOns)
			if err != nil {
				return nil, err
			}
			if err := b.Reschedule(dr, price, now); err != nil {
				return nil, err
			}
		}
	}
	if cmd.CareInstructions != nil {
		if err := b.UpdateCareInstructions(*cmd.CareInstructions, now); err != nil {
			return nil, err
		}
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := h.Events.Publish(ctx, b); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking updated", "booking_id", b.ID, "check_in", b.Range.CheckIn, "check_out", b.Range.CheckOut, "total", b.Price.Total.String())
	}
	result := dto.MapBooking(b, false, now)
	return &result, nil
}

var _ commands.Handler[UpdateBookingCommand, *dto.Booking] = (*UpdateBookingHandler)(nil)
