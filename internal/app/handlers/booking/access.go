package booking

import (
	"context"
	"errors"
	"strings"

	"pethost/internal/app/uow"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	domainreviews "pethost/internal/domain/reviews"
	"pethost/internal/domain/shared/errs"
)

var (
	ErrNotBookingHost  = errs.New(errs.Forbidden, "booking: only the host can perform this action")
	ErrNotBookingOwner = errs.New(errs.Forbidden, "booking: only the pet owner can perform this action")
	ErrNotParticipant  = errs.New(errs.Forbidden, "booking: caller is not part of this booking")
	ErrUnknownResponse = errs.New(errs.Validation, "booking: response must be approve or reject")
	ErrHostOwnsBooking = errs.New(errs.Validation, "booking: hosts cannot book their own profile")
)

type role int

const (
	roleNone role = iota
	roleOwner
	roleHost
)

// participant loads a booking with its host and resolves the actor's role.
type participant struct {
	booking *domainbooking.Booking
	host    *domainhosts.Host
	role    role
}

func loadParticipant(ctx context.Context, unit uow.UnitOfWork, bookingID, actorID string) (participant, error) {
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(strings.TrimSpace(bookingID)))
	if err != nil {
		return participant{}, err
	}
	host, err := unit.Hosts().ByID(ctx, b.HostID)
	if err != nil {
		return participant{}, err
	}
	p := participant{booking: b, host: host}
	switch {
	case host.OwnedBy(actorID):
		p.role = roleHost
	case b.OwnerID == actorID:
		p.role = roleOwner
	}
	return p, nil
}

func hasReview(ctx context.Context, unit uow.UnitOfWork, id domainbooking.BookingID) (bool, error) {
	_, err := unit.Reviews().ByBooking(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domainreviews.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (p participant) requireHost() error {
	if p.role != roleHost {
		return ErrNotBookingHost
	}
	return nil
}

func (p participant) requireOwner() error {
	if p.role != roleOwner {
		return ErrNotBookingOwner
	}
	return nil
}

func (p participant) requireAny() error {
	if p.role == roleNone {
		return ErrNotParticipant
	}
	return nil
}
