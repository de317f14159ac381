package booking

import (
	"context"
	"log/slog"
	"strings"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/uow"
	domainbooking "pethost/internal/domain/booking"
	"pethost/internal/domain/trust"
)

const respondBookingKey = "booking.respond"

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type RespondBookingCommand struct {
	ActorID   string `validate:"required"`
	BookingID string `validate:"required"`
	Action    string `validate:"required,oneof=approve reject"`
	Reason    string `validate:"max=1000"`
}

func (c RespondBookingCommand) Key() string             { return respondBookingKey }
func (c RespondBookingCommand) Actor() string           { return c.ActorID }
func (c RespondBookingCommand) ScopedBookingID() string { return c.BookingID }

// RespondBookingHandler records the host's decision on a pending request and
// refreshes the host response metrics.
type RespondBookingHandler struct {
	Events support.Events
	Clock  support.Clock
	Logger *slog.Logger
}

func (h *RespondBookingHandler) Handle(ctx context.Context, cmd RespondBookingCommand) (*dto.Booking, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := loadParticipant(ctx, unit, cmd.BookingID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if err := p.requireHost(); err != nil {
		return nil, err
	}
	b := p.booking
	now := h.Clock.Now()
	switch strings.ToLower(strings.TrimSpace(cmd.Action)) {
	case ActionApprove:
		if b.Status == domainbooking.StatusPendingApproval {
			if err := checkAvailability(ctx, unit, p.host, b.PetID, b.Range, b.ID); err != nil {
				return nil, err
			}
		}
		err = b.Approve(now)
	case ActionReject:
		err = b.Reject(cmd.Reason, now)
	default:
		err = ErrUnknownResponse
	}
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := h.Events.Publish(ctx, b); err != nil {
		return nil, err
	}
	if _, _, err := support.RecomputeTrust(ctx, unit, h.Events, b.HostID, trust.TriggerResponse, h.Clock); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking answered", "booking_id", b.ID, "host_id", b.HostID, "status", b.Status)
	}
	result := dto.MapBooking(b, false, now)
	return &result, nil
}

var _ commands.Handler[RespondBookingCommand, *dto.Booking] = (*RespondBookingHandler)(nil)
