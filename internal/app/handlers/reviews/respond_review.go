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
)

const respondReviewKey = "reviews.respond"

type RespondReviewCommand struct {
	ActorID  string `validate:"required"`
	ReviewID string `validate:"required"`
	Text     string `validate:"required,max=2000"`
}

func (c RespondReviewCommand) Key() string            { return respondReviewKey }
func (c RespondReviewCommand) Actor() string          { return c.ActorID }
func (c RespondReviewCommand) ScopedReviewID() string { return c.ReviewID }

type RespondReviewHandler struct {
	Clock  support.Clock
	Logger *slog.Logger
}

func (h *RespondReviewHandler) Handle(ctx context.Context, cmd RespondReviewCommand) (*dto.Review, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	review, err := unit.Reviews().ByID(ctx, domainreviews.ReviewID(strings.TrimSpace(cmd.ReviewID)))
	if err != nil {
		return nil, err
	}
	host, err := unit.Hosts().ByID(ctx, review.HostID)
	if err != nil {
		return nil, err
	}
	if !host.OwnedBy(cmd.ActorID) {
		return nil, ErrNotReviewedHost
	}
	if err := review.Respond(cmd.Text, h.Clock.Now()); err != nil {
		return nil, err
	}
	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("review answered", "review_id", review.ID, "host_id", host.ID)
	}
	result := dto.MapReview(review)
	return &result, nil
}

var _ commands.Handler[RespondReviewCommand, *dto.Review] = (*RespondReviewHandler)(nil)
