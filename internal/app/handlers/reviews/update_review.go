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
	"pethost/internal/domain/trust"
)

const updateReviewKey = "reviews.update"

type UpdateReviewCommand struct {
	ActorID  string `validate:"required"`
	ReviewID string `validate:"required"`
	Ratings  dto.Ratings
	Text     string `validate:"max=4000"`
}

func (c UpdateReviewCommand) Key() string            { return updateReviewKey }
func (c UpdateReviewCommand) Actor() string          { return c.ActorID }
func (c UpdateReviewCommand) ScopedReviewID() string { return c.ReviewID }

// UpdateReviewHandler lets the author revise a review until the host answers it.
type UpdateReviewHandler struct {
	Events support.Events
	Clock  support.Clock
	Logger *slog.Logger
}

func (h *UpdateReviewHandler) Handle(ctx context.Context, cmd UpdateReviewCommand) (*dto.Review, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	review, err := unit.Reviews().ByID(ctx, domainreviews.ReviewID(strings.TrimSpace(cmd.ReviewID)))
	if err != nil {
		return nil, err
	}
	if review.AuthorID != cmd.ActorID {
		return nil, ErrNotReviewAuthor
	}
	if err := review.Update(cmd.Ratings.ToDomain(), cmd.Text, h.Clock.Now()); err != nil {
		return nil, err
	}
	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, err
	}
	if err := h.Events.Publish(ctx, review); err != nil {
		return nil, err
	}
	if _, _, err := support.RecomputeTrust(ctx, unit, h.Events, review.HostID, trust.TriggerRating, h.Clock); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("review updated", "review_id", review.ID, "host_id", review.HostID)
	}
	result := dto.MapReview(review)
	return &result, nil
}

var _ commands.Handler[UpdateReviewCommand, *dto.Review] = (*UpdateReviewHandler)(nil)
