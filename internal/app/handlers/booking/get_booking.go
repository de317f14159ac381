package booking

import (
	"context"
	"log/slog"

	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/queries"
	"pethost/internal/app/uow"
)

const getBookingKey = "booking.get"

type GetBookingQuery struct {
	BookingID string `validate:"required"`
	ViewerID  string `validate:"required"`
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type GetBookingHandler struct {
	UoWFactory uow.UoWFactory
	Clock      support.Clock
	Logger     *slog.Logger
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (dto.Booking, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Booking{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	p, err := loadParticipant(execCtx, unit, q.BookingID, q.ViewerID)
	if err != nil {
		return dto.Booking{}, err
	}
	if err := p.requireAny(); err != nil {
		return dto.Booking{}, err
	}
	reviewed, err := hasReview(execCtx, unit, p.booking.ID)
	if err != nil {
		return dto.Booking{}, err
	}
	return dto.MapBooking(p.booking, reviewed, h.Clock.Now()), nil
}

var _ queries.Handler[GetBookingQuery, dto.Booking] = (*GetBookingHandler)(nil)
