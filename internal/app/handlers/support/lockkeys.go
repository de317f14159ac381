package support

import (
	"context"
	"errors"
	"strings"

	"pethost/internal/app/commands"
	"pethost/internal/app/middleware"
	"pethost/internal/app/policies"
	"pethost/internal/app/uow"
	domainbooking "pethost/internal/domain/booking"
	domainreviews "pethost/internal/domain/reviews"
)

// Commands expose the aggregates they write through these interfaces.
type (
	HostScoped    interface{ ScopedHostID() string }
	PetScoped     interface{ ScopedPetID() string }
	BookingScoped interface{ ScopedBookingID() string }
	ReviewScoped  interface{ ScopedReviewID() string }
	UserScoped    interface{ ScopedUserID() string }
)

// LockKeys resolves user, host and pet lock keys for a command. Booking and review
// scoped commands are resolved through a read-only unit. Unknown ids resolve
// to no key and let the handler report the NotFound.
func LockKeys(factory uow.UoWFactory) middleware.LockResolver {
	return func(ctx context.Context, cmd commands.Command) ([]string, error) {
		var keys []string
		if c, ok := cmd.(UserScoped); ok && strings.TrimSpace(c.ScopedUserID()) != "" {
			keys = append(keys, policies.UserLockKey(strings.TrimSpace(c.ScopedUserID())))
		}
		if c, ok := cmd.(HostScoped); ok && strings.TrimSpace(c.ScopedHostID()) != "" {
			keys = append(keys, policies.HostLockKey(strings.TrimSpace(c.ScopedHostID())))
		}
		if c, ok := cmd.(PetScoped); ok && strings.TrimSpace(c.ScopedPetID()) != "" {
			keys = append(keys, policies.PetLockKey(strings.TrimSpace(c.ScopedPetID())))
		}
		bookingID := ""
		if c, ok := cmd.(BookingScoped); ok {
			bookingID = strings.TrimSpace(c.ScopedBookingID())
		}
		reviewID := ""
		if c, ok := cmd.(ReviewScoped); ok {
			reviewID = strings.TrimSpace(c.ScopedReviewID())
		}
		if bookingID == "" && reviewID == "" {
			return keys, nil
		}

		unit, execCtx, cleanup, err := BeginReadOnlyUnit(ctx, factory)
		if err != nil {
			return nil, err
		}
		if cleanup != nil {
			defer cleanup()
		}
		if reviewID != "" {
			review, err := unit.Reviews().ByID(execCtx, domainreviews.ReviewID(reviewID))
			switch {
			case errors.Is(err, domainreviews.ErrNotFound):
				return keys, nil
			case err != nil:
				return nil, err
			}
			keys = append(keys, policies.HostLockKey(string(review.HostID)))
		}
		if bookingID != "" {
			b, err := unit.Bookings().ByID(execCtx, domainbooking.BookingID(bookingID))
			switch {
			case errors.Is(err, domainbooking.ErrBookingNotFound):
				return keys, nil
			case err != nil:
				return nil, err
			}
			keys = append(keys, policies.HostLockKey(string(b.HostID)), policies.PetLockKey(b.PetID))
		}
		return keys, nil
	}
}
