package booking

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/middleware"
	"pethost/internal/app/policies"
	"pethost/internal/app/uow"
	domainavailability "pethost/internal/domain/availability"
	domainbooking "pethost/internal/domain/booking"
	domainhosts "pethost/internal/domain/hosts"
	"pethost/internal/domain/shared/daterange"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	ActorID          string    `validate:"required"`
	HostID           string    `validate:"required"`
	PetID            string    `validate:"required"`
	CheckIn          time.Time `validate:"required"`
	CheckOut         time.Time `validate:"required"`
	AddOns           []string  `validate:"max=10,dive,required"`
	CareInstructions string    `validate:"max=4000"`
	IdempotencyKeyV  string
}

func (c CreateBookingCommand) Key() string            { return createBookingKey }
func (c CreateBookingCommand) Actor() string          { return c.ActorID }
func (c CreateBookingCommand) ScopedHostID() string   { return c.HostID }
func (c CreateBookingCommand) ScopedPetID() string    { return c.PetID }
func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c CreateBookingCommand) ResultPrototype() any   { return &dto.Booking{} }

// CreateBookingHandler checks availability, prices the stay and stores the
// request as PENDING_APPROVAL.
type CreateBookingHandler struct {
	Users   policies.UserDirectory
	Pets    policies.PetRegistry
	Pricing policies.PricingPort
	Events  support.Events
	Clock   support.Clock
	Logger  *slog.Logger
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*dto.Booking, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	now := h.Clock.Now()
	dr, err := daterange.New(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := domainbooking.ValidateDateRange(dr, now); err != nil {
		return nil, err
	}

	user, err := h.Users.User(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, policies.ErrUserNotFound
	}
	pet, err := h.Pets.Pet(ctx, strings.TrimSpace(cmd.PetID))
	if err != nil {
		return nil, err
	}
	if !pet.Active {
		return nil, policies.ErrPetNotFound
	}
	if pet.OwnerID != user.ID {
		return nil, policies.ErrPetNotOwned
	}
	host, err := unit.Hosts().ByID(ctx, domainhosts.HostID(strings.TrimSpace(cmd.HostID)))
	if err != nil {
		return nil, err
	}
	if !host.Active {
		return nil, domainhosts.ErrHostInactive
	}
	if host.OwnedBy(user.ID) {
		return nil, ErrHostOwnsBooking
	}

	if err := checkAvailability(ctx, unit, host, pet.ID, dr, ""); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("booking request rejected", "host_id", host.ID, "pet_id", pet.ID, "error", err)
		}
		return nil, err
	}

	price, err := h.Pricing.Quote(ctx, host, pet.Size, dr, cmd.AddOns)
	if err != nil {
		return nil, err
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:               domainbooking.BookingID(support.NewID()),
		HostID:           host.ID,
		PetID:            pet.ID,
		OwnerID:          user.ID,
		Range:            dr,
		PetSize:          pet.Size,
		AddOns:           normalizeAddOns(cmd.AddOns),
		Price:            price,
		CareInstructions: cmd.CareInstructions,
		CreatedAt:        now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := h.Events.Publish(ctx, b); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("booking requested", "booking_id", b.ID, "host_id", host.ID, "pet_id", pet.ID, "days", b.DurationDays(), "total", b.Price.Total.String())
	}
	result := dto.MapBooking(b, false, now)
	return &result, nil
}

// checkAvailability runs the host and pet rules against current bookings.
func checkAvailability(ctx context.Context, unit uow.UnitOfWork, host *domainhosts.Host, petID string, dr daterange.DateRange, exclude domainbooking.BookingID) error {
	blocks, err := unit.Availability().ListByHost(ctx, host.ID)
	if err != nil {
		return err
	}
	hostBookings, err := unit.Bookings().List(ctx, domainbooking.Filter{
		HostID:   host.ID,
		Statuses: domainbooking.CapacityStatuses,
		Overlaps: &dr,
		Exclude:  exclude,
	})
	if err != nil {
		return err
	}
	if err := domainavailability.CheckHost(domainavailability.HostCheck{
		MaxPets:  host.MaxPets,
		Blocks:   blocks,
		Bookings: hostBookings,
		Range:    dr,
		Exclude:  exclude,
	}); err != nil {
		return err
	}
	petBookings, err := unit.Bookings().List(ctx, domainbooking.Filter{
		PetID:    petID,
		Statuses: domainbooking.PetConflictStatuses,
		Overlaps: &dr,
		Exclude:  exclude,
	})
	if err != nil {
		return err
	}
	return domainavailability.CheckPet(petID, petBookings, dr, exclude)
}

func normalizeAddOns(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var _ commands.Handler[CreateBookingCommand, *dto.Booking] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}
