package reviews

import (
	"context"
	"log/slog"
	"strings"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/uow"
	domainreviews "pethost/internal/domain/reviews"
	"pethost/internal/domain/shared/errs"
	"pethost/internal/domain/trust"
)

const moderateReviewKey = "reviews.moderate"

var ErrNotModerator = errs.New(errs.Forbidden, "reviews: moderator role required")

// ModerateReviewCommand hides or restores a review. Moderator is set by the
// transport from the caller's roles.
type ModerateReviewCommand struct {
	ActorID   string `validate:"required"`
	ReviewID  string `validate:"required"`
	Hidden    bool
	Moderator bool
}

func (c ModerateReviewCommand) Key() string            { return moderateReviewKey }
func (c ModerateReviewCommand) Actor() string          { return c.ActorID }
func (c ModerateReviewCommand) ScopedReviewID() string { return c.ReviewID }

type ModerateReviewHandler struct {
	Events support.Events
	Clock  support.Clock
	Logger *slog.Logger
}

func (h *ModerateReviewHandler) Handle(ctx context.Context, cmd ModerateReviewCommand) (*dto.Review, error) {
	if !cmd.Moderator {
		return nil, ErrNotModerator
	}
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	review, err := unit.Reviews().ByID(ctx, domainreviews.ReviewID(strings.TrimSpace(cmd.ReviewID)))
	if err != nil {
		return nil, err
	}
	if !review.SetHidden(cmd.Hidden, h.Clock.Now()) {
		result := dto.MapReview(review)
		return &result, nil
	}
	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, err
	}
	if err := h.Events.Publish(ctx, review); err != nil {
		return nil, err
	}
	host, _, err := support.RecomputeTrust(ctx, unit, h.Events, review.HostID, trust.TriggerRating, h.Clock)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("review moderated", "review_id", review.ID, "host_id", host.ID, "hidden", review.Hidden, "rating", host.Metrics.Rating, "moderator", cmd.ActorID)
	}
	result := dto.MapReview(review)
	return &result, nil
}

var _ commands.Handler[ModerateReviewCommand, *dto.Review] = (*ModerateReviewHandler)(nil)
