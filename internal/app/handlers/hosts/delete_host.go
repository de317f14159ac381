package hosts

import (
	"context"
	"log/slog"

	"pethost/internal/app/commands"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/uow"
	domainbooking "pethost/internal/domain/booking"
)

const deleteHostKey = "hosts.delete"

type DeleteHostCommand struct {
	ActorID string `validate:"required"`
	HostID  string `validate:"required"`
}

func (c DeleteHostCommand) Key() string          { return deleteHostKey }
func (c DeleteHostCommand) Actor() string        { return c.ActorID }
func (c DeleteHostCommand) ScopedHostID() string { return c.HostID }

type DeleteHostResult struct {
	HostID        string `json:"host_id"`
	Deactivated   bool   `json:"deactivated"`
	Deleted       bool   `json:"deleted"`
	BlocksRemoved int    `json:"blocks_removed,omitempty"`
}

// DeleteHostHandler removes a host profile with its availability blocks, or
// deactivates it when bookings still reference it.
type DeleteHostHandler struct {
	Events support.Events
	Clock  support.Clock
	Logger *slog.Logger
}

func (h *DeleteHostHandler) Handle(ctx context.Context, cmd DeleteHostCommand) (*DeleteHostResult, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	host, err := loadOwnedHost(ctx, unit, cmd.HostID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	bookings, err := unit.Bookings().List(ctx, domainbooking.Filter{HostID: host.ID})
	if err != nil {
		return nil, err
	}
	result := &DeleteHostResult{HostID: string(host.ID)}
	if len(bookings) > 0 {
		host.Deactivate(h.Clock.Now())
		if err := unit.Hosts().Save(ctx, host); err != nil {
			return nil, err
		}
		result.Deactivated = true
	} else {
		blocks, err := unit.Availability().ListByHost(ctx, host.ID)
		if err != nil {
			return nil, err
		}
		for _, block := range blocks {
			if err := unit.Availability().Delete(ctx, block.ID); err != nil {
				return nil, err
			}
		}
		result.BlocksRemoved = len(blocks)
		if err := unit.Hosts().Delete(ctx, host.ID); err != nil {
			return nil, err
		}
		host.Deactivate(h.Clock.Now())
		result.Deleted = true
	}
	if err := h.Events.Publish(ctx, host); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("host removed", "host_id", host.ID, "deactivated", result.Deactivated, "bookings", len(bookings))
	}
	return result, nil
}

var _ commands.Handler[DeleteHostCommand, *DeleteHostResult] = (*DeleteHostHandler)(nil)
