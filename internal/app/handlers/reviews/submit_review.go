package reviews

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"pethost/internal/app/commands"
	"pethost/internal/app/dto"
	"pethost/internal/app/handlers/support"
	"pethost/internal/app/uow"
	domainbooking "pethost/internal/domain/booking"
	domainreviews "pethost/internal/domain/reviews"
	"pethost/internal/domain/shared/errs"
	"pethost/internal/domain/trust"
)

const submitReviewKey = "reviews.submit"

var (
	ErrBookingOwnership = errs.New(errs.Forbidden, "reviews: booking does not belong to current user")
	ErrNotReviewAuthor  = errs.New(errs.Forbidden, "reviews: only the author can edit a review")
	ErrNotReviewedHost  = errs.New(errs.Forbidden, "reviews: only the reviewed host can respond")
)

// SubmitReviewCommand creates the review of a completed booking.
type SubmitReviewCommand struct {
	ActorID   string `validate:"required"`
	BookingID string `validate:"required"`
	Ratings   dto.Ratings
	Text      string `validate:"max=4000"`
}

func (c SubmitReviewCommand) Key() string             { return submitReviewKey }
func (c SubmitReviewCommand) Actor() string           { return c.ActorID }
func (c SubmitReviewCommand) ScopedBookingID() string { return c.BookingID }

type SubmitReviewHandler struct {
	Events support.Events
	Clock  support.Clock
	Logger *slog.Logger
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*dto.Review, error) {
	unit, err := uow.MustFromContext(ctx)
	if err != nil {
		return nil, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(strings.TrimSpace(cmd.BookingID)))
	if err != nil {
		return nil, err
	}
	if b.OwnerID != cmd.ActorID {
		return nil, ErrBookingOwnership
	}
	existing, err := unit.Reviews().ByBooking(ctx, b.ID)
	if err != nil && !errors.Is(err, domainreviews.ErrNotFound) {
		return nil, err
	}
	now := h.Clock.Now()
	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:        domainreviews.ReviewID(support.NewID()),
		Booking:   b,
		HasReview: existing != nil,
		Ratings:   cmd.Ratings.ToDomain(),
		Text:      cmd.Text,
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Reviews().Save(ctx, review); err != nil {
		return nil, err
	}
	if err := h.Events.Publish(ctx, review); err != nil {
		return nil, err
	}
	host, granted, err := support.RecomputeTrust(ctx, unit, h.Events, review.HostID, trust.TriggerRating, h.Clock)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("review submitted", "review_id", review.ID, "booking_id", b.ID, "host_id", host.ID, "rating", host.Metrics.Rating)
		if granted {
			h.Logger.Info("super host granted", "host_id", host.ID)
		}
	}
	result := dto.MapReview(review)
	return &result, nil
}

var _ commands.Handler[SubmitReviewCommand, *dto.Review] = (*SubmitReviewHandler)(nil)
