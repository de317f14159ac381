package hosts

import (
	"context"
	"log/slog"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/uow"
)

const updateHostKey = "hosts.update"

type UpdateHostCommand struct {
	ActorID string `validate:"required"`
	HostID  string `validate:"required"`
	Profile ProfileInput
}

func (c UpdateHostCommand) Key() string          { return updateHostKey }
func (c UpdateHostCommand) Actor() string        { return c.ActorID }
func (c UpdateHostCommand) ScopedHostID() string { return c.HostID }

type UpdateHostHandler struct {
	Currency string
	Events   support.Events
	Clock    support.Clock
	Logger   *slog.Logger
}

func (h *UpdateHostHandler) Handle(ctx context.Context, cmd UpdateHostCommand) (*dto.Host, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	host, err := loadOwnedHost(ctx, unit, cmd.HostID, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	fallback := host.Pricing.BaseDailyRate.Currency
	if fallback == "" {
		fallback = h.Currency
	}
	if err := host.UpdateProfile(cmd.Profile.toDomain(fallback), h.Clock.Now()); err != nil {
		return nil, err
	}
	if err := unit.Hosts().Save(ctx, host); err != nil {
		return nil, err
	}
	if err := h.Events.Publish(ctx, host); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("host updated", "host_id", host.ID, "max_pets", host.MaxPets)
	}
	result := dto.MapHost(host)
	return &result, nil
}

var _ commands.Handler[UpdateHostCommand, *dto.Host] = (*UpdateHostHandler)(nil)
