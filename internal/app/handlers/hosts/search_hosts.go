package hosts

import (
	"context"
	"log/slog"

	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/queries"
	"pethost/internal/app/uow"
	domainavailability "pethost/internal/domain/availability"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	"pethost/internal/domain/shared/daterange"
)

const searchHostsKey = "hosts.search"

type SearchHostsQuery struct {
	Params domainhosts.SearchParams
}

func (q SearchHostsQuery) Key() string { return searchHostsKey }

// SearchHostsHandler filters hosts by profile fields, then by availability
// for the requested dates, then pages the result.
type SearchHostsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *SearchHostsHandler) Handle(ctx context.Context, q SearchHostsQuery) (dto.HostCollection, error) {
	params := q.Params.Normalized()
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HostCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	candidates, err := unit.Hosts().Search(execCtx, params)
	if err != nil {
		return dto.HostCollection{}, err
	}
	matched := candidates
	if params.HasDates() {
		dr, err := daterange.New(params.CheckIn, params.CheckOut)
		if err != nil {
			return dto.HostCollection{}, err
		}
		matched = make([]*domainhosts.Host, 0, len(candidates))
		for _, host := range candidates {
			ok, err := hostAvailable(execCtx, unit, host, dr)
			if err != nil {
				return dto.HostCollection{}, err
			}
			if ok {
				matched = append(matched, host)
			}
		}
	}

	window := dto.Window(matched, params.Limit, params.Offset)
	items := make([]dto.Host, 0, len(window))
	for _, host := range window {
		item := dto.MapHost(host)
		if params.Near != nil {
			d := domainhosts.DistanceKm(*params.Near, host.Address.Point())
			item.DistanceKm = &d
		}
		items = append(items, item)
	}
	if h.Logger != nil {
		h.Logger.Debug("hosts searched", "city", params.City, "candidates", len(candidates), "matched", len(matched), "returned", len(items))
	}
	return dto.HostCollection{Items: items, Total: len(matched), Limit: params.Limit, Offset: params.Offset}, nil
}

func hostAvailable(ctx context.Context, unit uow.UnitOfWork, host *domainhosts.Host, dr daterange.DateRange) (bool, error) {
	blocks, err := unit.Availability().ListByHost(ctx, host.ID)
	if err != nil {
		return false, err
	}
	bookings, err := unit.Bookings().List(ctx, domainbooking.Filter{
		HostID:   host.ID,
		Statuses: domainbooking.CapacityStatuses,
		Overlaps: &dr,
	})
	if err != nil {
		return false, err
	}
	err = domainavailability.CheckHost(domainavailability.HostCheck{
		MaxPets:  host.MaxPets,
		Blocks:   blocks,
		Bookings: bookings,
		Range:    dr,
	})
	return err == nil, nil
}

var _ queries.Handler[SearchHostsQuery, dto.HostCollection] = (*SearchHostsHandler)(nil)
