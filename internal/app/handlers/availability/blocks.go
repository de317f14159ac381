package availability

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/uow"
	domainavailability "pethost/internal/domain/availability"
	domainhosts "pethost/internal/domain/hosts"
	"pethost/internal/domain/shared/daterange"
	"pethost/internal/domain/shared/errs"
	"pethost/internal/domain/shared/money"
)

const (
	createBlockKey = "availability.blocks.create"
	deleteBlockKey = "availability.blocks.delete"
)

var ErrBlockHostMismatch = errs.New(errs.NotFound, "availability: block does not belong to host")

type CreateBlockCommand struct {
	ActorID          string    `validate:"required"`
	HostID           string    `validate:"required"`
	StartDate        time.Time `validate:"required"`
	EndDate          time.Time `validate:"required"`
	Blocked          bool
	MaxPetsAvailable *int   `validate:"omitempty,gte=0"`
	CustomRateCents  *int64 `validate:"omitempty,gte=0"`
	Note             string `validate:"max=500"`
}

func (c CreateBlockCommand) Key() string          { return createBlockKey }
func (c CreateBlockCommand) Actor() string        { return c.ActorID }
func (c CreateBlockCommand) ScopedHostID() string { return c.HostID }

type CreateBlockHandler struct {
	Events support.Events
	Clock  support.Clock
	Logger *slog.Logger
}

func (h *CreateBlockHandler) Handle(ctx context.Context, cmd CreateBlockCommand) (*dto.AvailabilityBlock, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	host, err := ownedHost(ctx, unit, cmd.HostID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	dr, err := daterange.New(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}
	var rate *money.Money
	if cmd.CustomRateCents != nil {
		rate = &money.Money{Amount: *cmd.CustomRateCents, Currency: host.Pricing.BaseDailyRate.Currency}
	}
	block, err := domainavailability.NewBlock(domainavailability.NewBlockParams{
		ID:               domainavailability.BlockID(support.NewID()),
		HostID:           host.ID,
		Range:            dr,
		Blocked:          cmd.Blocked,
		MaxPetsAvailable: cmd.MaxPetsAvailable,
		CustomRate:       rate,
		Note:             cmd.Note,
		Now:              h.Clock.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Availability().Save(ctx, block); err != nil {
		return nil, err
	}
	if err := h.Events.Publish(ctx, block); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("availability block created", "host_id", host.ID, "block_id", block.ID, "blocked", block.Blocked)
	}
	result := dto.MapBlock(block)
	return &result, nil
}

type DeleteBlockCommand struct {
	ActorID string `validate:"required"`
	HostID  string `validate:"required"`
	BlockID string `validate:"required"`
}

func (c DeleteBlockCommand) Key() string          { return deleteBlockKey }
func (c DeleteBlockCommand) Actor() string        { return c.ActorID }
func (c DeleteBlockCommand) ScopedHostID() string { return c.HostID }

type DeleteBlockHandler struct {
	Events support.Events
	Clock  support.Clock
	Logger *slog.Logger
}

func (h *DeleteBlockHandler) Handle(ctx context.Context, cmd DeleteBlockCommand) (*dto.AvailabilityBlock, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	host, err := ownedHost(ctx, unit, cmd.HostID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	block, err := unit.Availability().ByID(ctx, domainavailability.BlockID(strings.TrimSpace(cmd.BlockID)))
	if err != nil {
		return nil, err
	}
	if block.HostID != host.ID {
		return nil, ErrBlockHostMismatch
	}
	if err := unit.Availability().Delete(ctx, block.ID); err != nil {
		return nil, err
	}
	block.MarkRemoved(h.Clock.Now())
	if err := h.Events.Publish(ctx, block); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("availability block removed", "host_id", host.ID, "block_id", block.ID)
	}
	result := dto.MapBlock(block)
	return &result, nil
}

func ownedHost(ctx context.Context, unit uow.UnitOfWork, hostID, actorID string) (*domainhosts.Host, error) {
	host, err := unit.Hosts().ByID(ctx, domainhosts.HostID(strings.TrimSpace(hostID)))
	if err != nil {
		return nil, err
	}
	if !host.OwnedBy(actorID) {
		return nil, domainhosts.ErrNotOwner
	}
	return host, nil
}

var (
	_ commands.Handler[CreateBlockCommand, *dto.AvailabilityBlock] = (*CreateBlockHandler)(nil)
	_ commands.Handler[DeleteBlockCommand, *dto.AvailabilityBlock] = (*DeleteBlockHandler)(nil)
)
