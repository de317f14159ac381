package availability

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/queries"
	"pethost/internal/app/uow"
	domainavailability "pethost/internal/domain/availability"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	"pethost/internal/domain/shared/daterange"
)

const getAvailabilityKey = "availability.get"

// GetAvailabilityQuery lists a host's blocks. With From and To set it also
// returns the per-day calendar for that window.
type GetAvailabilityQuery struct {
	HostID string `validate:"required"`
	From   time.Time
	To     time.Time
}

func (q GetAvailabilityQuery) Key() string { return getAvailabilityKey }

type GetAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *GetAvailabilityHandler) Handle(ctx context.Context, q GetAvailabilityQuery) (dto.HostAvailability, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HostAvailability{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	host, err := unit.Hosts().ByID(execCtx, domainhosts.HostID(strings.TrimSpace(q.HostID)))
	if err != nil {
		return dto.HostAvailability{}, err
	}
	blocks, err := unit.Availability().ListByHost(execCtx, host.ID)
	if err != nil {
		return dto.HostAvailability{}, err
	}
	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Range.CheckIn.Before(blocks[j].Range.CheckIn)
	})
	out := dto.HostAvailability{HostID: string(host.ID), Blocks: make([]dto.AvailabilityBlock, 0, len(blocks))}
	for _, b := range blocks {
		out.Blocks = append(out.Blocks, dto.MapBlock(b))
	}

	if !q.From.IsZero() && !q.To.IsZero() {
		window, err := daterange.New(daterange.StartOfDay(q.From), daterange.StartOfDay(q.To))
		if err != nil {
			return dto.HostAvailability{}, err
		}
		bookings, err := unit.Bookings().List(execCtx, domainbooking.Filter{
			HostID:   host.ID,
			Statuses: domainbooking.CapacityStatuses,
			Overlaps: &window,
		})
		if err != nil {
			return dto.HostAvailability{}, err
		}
		out.Days = dto.MapCalendar(domainavailability.Calendar(host.MaxPets, blocks, bookings, window))
	}
	if h.Logger != nil {
		h.Logger.Debug("availability listed", "host_id", host.ID, "blocks", len(out.Blocks), "days", len(out.Days))
	}
	return out, nil
}

var _ queries.Handler[GetAvailabilityQuery, dto.HostAvailability] = (*GetAvailabilityHandler)(nil)
