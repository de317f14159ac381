package hosts

import (
	"context"
	"errors"
	"log/slog"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/middleware"
	"pethost/internal/app/policies"
	"pethost/internal/app/uow"
	domainhosts "pethost/internal/domain/hosts"
)

const createHostKey = "hosts.create"

type CreateHostCommand struct {
	ActorID         string `validate:"required"`
	Profile         ProfileInput
	IdempotencyKeyV string
}

func (c CreateHostCommand) Key() string            { return createHostKey }
func (c CreateHostCommand) Actor() string          { return c.ActorID }
func (c CreateHostCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c CreateHostCommand) ResultPrototype() any   { return &dto.Host{} }
func (c CreateHostCommand) ScopedUserID() string   { return c.ActorID }

// CreateHostHandler registers the single host profile a user may own.
type CreateHostHandler struct {
	Users    policies.UserDirectory
	Currency string
	Events   support.Events
	Clock    support.Clock
	Logger   *slog.Logger
}

func (h *CreateHostHandler) Handle(ctx context.Context, cmd CreateHostCommand) (*dto.Host, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := h.Users.User(ctx, cmd.ActorID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, policies.ErrUserNotFound
	}
	existing, err := unit.Hosts().ByUser(ctx, user.ID)
	switch {
	case err == nil && existing != nil:
		return nil, domainhosts.ErrDuplicateHost
	case err != nil && !errors.Is(err, domainhosts.ErrHostNotFound):
		return nil, err
	}

	now := h.Clock.Now()
	host, err := domainhosts.NewHost(domainhosts.CreateParams{
		ID:       domainhosts.HostID(support.NewID()),
		UserID:   user.ID,
		Profile:  cmd.Profile.toDomain(h.Currency),
		Verified: user.Verified,
		Now:      now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Hosts().Save(ctx, host); err != nil {
		return nil, err
	}
	if err := h.Events.Publish(ctx, host); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("host created", "host_id", host.ID, "user_id", host.UserID, "verified", host.Verified)
	}
	result := dto.MapHost(host)
	return &result, nil
}

var _ commands.Handler[CreateHostCommand, *dto.Host] = (*CreateHostHandler)(nil)
var _ middleware.IdempotentCommand = CreateHostCommand{}
