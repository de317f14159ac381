package support

import (
	"context"

	"pethost/internal/app/uow"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	domainreviews "pethost/internal/domain/reviews"
	"pethost/internal/domain/trust"
)

// RecomputeTrust re-derives the host metrics owned by trigger from the full
// booking and review history and saves the host. Callers hold the host lock.
func RecomputeTrust(ctx context.Context, unit uow.UnitOfWork, events Events, hostID domainhosts.HostID, trigger trust.Trigger, clock Clock) (*domainhosts.Host, bool, error) {
	host, err := unit.Hosts().ByID(ctx, hostID)
	if err != nil {
		return nil, false, err
	}
	var hist trust.History
	if trigger == trust.TriggerRating {
		hist.Reviews, err = unit.Reviews().ListByHost(ctx, hostID)
		if err != nil {
			return nil, false, err
		}
		hist.Reviews = visibleReviews(hist.Reviews)
	} else {
		hist.Bookings, err = unit.Bookings().List(ctx, domainbooking.Filter{HostID: hostID})
		if err != nil {
			return nil, false, err
		}
	}
	granted := trust.Apply(host, trigger, hist, clock.Now())
	if err := unit.Hosts().Save(ctx, host); err != nil {
		return nil, false, err
	}
	if err := events.Publish(ctx, host); err != nil {
		return nil, false, err
	}
	return host, granted, nil
}

func visibleReviews(all []*domainreviews.Review) []*domainreviews.Review {
	out := all[:0:0]
	for _, r := range all {
		if !r.Hidden {
			out = append(out, r)
		}
	}
	return out
}
