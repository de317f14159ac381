package booking

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/queries"
	"pethost/internal/app/uow"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
)

const (
	listBookingsKey     = "booking.list"
	defaultBookingLimit = 20
	maxBookingLimit     = 100
)

// ListBookingsQuery lists the viewer's bookings as pet owner, or the
// bookings of HostID when the viewer owns that host profile.
type ListBookingsQuery struct {
	ViewerID string `validate:"required"`
	HostID   string
	PetID    string
	Statuses []string `validate:"dive,oneof=PENDING_APPROVAL APPROVED REJECTED CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
	Limit    int      `validate:"gte=0"`
	Offset   int      `validate:"gte=0"`
}

func (q ListBookingsQuery) Key() string { return listBookingsKey }

type ListBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Clock      support.Clock
	Logger     *slog.Logger
}

func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) (dto.BookingCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	filter := domainbooking.Filter{PetID: strings.TrimSpace(q.PetID)}
	if hostID := strings.TrimSpace(q.HostID); hostID != "" {
		host, err := unit.Hosts().ByID(execCtx, domainhosts.HostID(hostID))
		if err != nil {
			return dto.BookingCollection{}, err
		}
		if !host.OwnedBy(q.ViewerID) {
			return dto.BookingCollection{}, ErrNotBookingHost
		}
		filter.HostID = host.ID
	} else {
		filter.OwnerID = q.ViewerID
	}
	for _, raw := range q.Statuses {
		status, err := domainbooking.ParseStatus(strings.ToUpper(strings.TrimSpace(raw)))
		if err != nil {
			return dto.BookingCollection{}, err
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	list, err := unit.Bookings().List(execCtx, filter)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	limit := q.Limit
	if limit <= 0 {
		limit = defaultBookingLimit
	}
	if limit > maxBookingLimit {
		limit = maxBookingLimit
	}
	now := h.Clock.Now()
	window := dto.Window(list, limit, q.Offset)
	items := make([]dto.Booking, 0, len(window))
	for _, b := range window {
		reviewed := false
		if b.Status == domainbooking.StatusCompleted {
			if reviewed, err = hasReview(execCtx, unit, b.ID); err != nil {
				return dto.BookingCollection{}, err
			}
		}
		items = append(items, dto.MapBooking(b, reviewed, now))
	}
	if h.Logger != nil {
		h.Logger.Debug("bookings listed", "viewer", q.ViewerID, "host_id", filter.HostID, "total", len(list))
	}
	return dto.BookingCollection{Items: items, Total: len(list), Limit: limit, Offset: q.Offset}, nil
}

var _ queries.Handler[ListBookingsQuery, dto.BookingCollection] = (*ListBookingsHandler)(nil)
