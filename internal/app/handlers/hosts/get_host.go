package hosts

import (
	"context"
	"log/slog"
	"strings"

	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/queries"
	"pethost/internal/app/uow"
	domainhosts "pethost/internal/domain/hosts"
)

const getHostKey = "hosts.get"

type GetHostQuery struct {
	HostID string `validate:"required"`
	// ViewerID lets owners see their own deactivated profile.
	ViewerID string
}

func (q GetHostQuery) Key() string { return getHostKey }

type GetHostHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *GetHostHandler) Handle(ctx context.Context, q GetHostQuery) (dto.Host, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Host{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	host, err := unit.Hosts().ByID(execCtx, domainhosts.HostID(strings.TrimSpace(q.HostID)))
	if err != nil {
		return dto.Host{}, err
	}
	if !host.Active && !host.OwnedBy(q.ViewerID) {
		return dto.Host{}, domainhosts.ErrHostInactive
	}
	return dto.MapHost(host), nil
}

var _ queries.Handler[GetHostQuery, dto.Host] = (*GetHostHandler)(nil)
