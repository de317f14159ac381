package reviews

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/queries"
	"pethost/internal/app/uow"
	domainhosts "pethost/internal/domain/hosts"
	domainreviews "pethost/internal/domain/reviews"
)

const listHostReviewsKey = "reviews.host.list"

type ListHostReviewsQuery struct {
	HostID string `validate:"required"`
	Limit  int    `validate:"gte=0"`
	Offset int    `validate:"gte=0"`
}

func (q ListHostReviewsQuery) Key() string { return listHostReviewsKey }

// ListHostReviewsHandler pages the visible reviews of a host, newest first.
type ListHostReviewsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListHostReviewsHandler) Handle(ctx context.Context, q ListHostReviewsQuery) (dto.ReviewCollection, error) {
	limit := normalizeLimit(q.Limit)
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	hostID := domainhosts.HostID(strings.TrimSpace(q.HostID))
	if _, err := unit.Hosts().ByID(execCtx, hostID); err != nil {
		return dto.ReviewCollection{}, err
	}
	all, err := unit.Reviews().ListByHost(execCtx, hostID)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	visible := make([]*domainreviews.Review, 0, len(all))
	for _, r := range all {
		if !r.Hidden {
			visible = append(visible, r)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	window := dto.Window(visible, limit, q.Offset)
	items := make([]dto.Review, 0, len(window))
	for _, r := range window {
		items = append(items, dto.MapReview(r))
	}
	if h.Logger != nil {
		h.Logger.Debug("host reviews listed", "host_id", hostID, "count", len(items), "total", len(visible))
	}
	return dto.ReviewCollection{Items: items, Total: len(visible), Limit: limit, Offset: q.Offset}, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}

var _ queries.Handler[ListHostReviewsQuery, dto.ReviewCollection] = (*ListHostReviewsHandler)(nil)
