package reviews

import (
	"context"
	"strings"
	"time"

	"pethost/internal/domain/booking"
	"pethost/internal/domain/hosts"
	"pethost/internal/domain/shared/errs"
	"pethost/internal/domain/shared/events"
)

var (
	ErrInvalidRating    = errs.New(errs.Validation, "reviews: ratings must be between 1 and 5")
	ErrNotFound         = errs.New(errs.NotFound, "reviews: not found")
	ErrDuplicate        = errs.New(errs.Conflict, "reviews: review already exists for booking")
	ErrNotReviewable    = errs.New(errs.InvalidState, "reviews: only completed bookings can be reviewed")
	ErrLocked           = errs.New(errs.InvalidState, "reviews: review is locked after the host responded")
	ErrAlreadyResponded = errs.New(errs.Conflict, "reviews: host already responded")
	ErrResponseRequired = errs.New(errs.Validation, "reviews: response text is required")
)

type ReviewID string

// Ratings are the five 1..5 sub-scores of a review.
type Ratings struct {
	CareQuality   int
	Communication int
	Cleanliness   int
	Value         int
	Overall       int
}

func (r Ratings) Validate() error {
	for _, v := range []int{r.CareQuality, r.Communication, r.Cleanliness, r.Value, r.Overall} {
		if v < 1 || v > 5 {
			return ErrInvalidRating
		}
	}
	return nil
}

type Review struct {
	ID              ReviewID
	BookingID       booking.BookingID
	HostID          hosts.HostID
	AuthorID        string
	Ratings         Ratings
	Text            string
	HostResponse    string
	HostRespondedAt *time.Time
	Hidden          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ReviewID) (*Review, error)
	ByBooking(ctx context.Context, bookingID booking.BookingID) (*Review, error)
	ListByHost(ctx context.Context, hostID hosts.HostID) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID        ReviewID
	Booking   *booking.Booking
	HasReview bool
	Ratings   Ratings
	Text      string
	CreatedAt time.Time
}

// Submit creates the single review a completed booking may carry.
func Submit(params SubmitParams) (*Review, error) {
	if params.HasReview {
		return nil, ErrDuplicate
	}
	if !params.Booking.CanBeReviewed(false) {
		return nil, ErrNotReviewable
	}
	if err := params.Ratings.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	review := &Review{
		ID:        params.ID,
		BookingID: params.Booking.ID,
		HostID:    params.Booking.HostID,
		AuthorID:  params.Booking.OwnerID,
		Ratings:   params.Ratings,
		Text:      strings.TrimSpace(params.Text),
		CreatedAt: now,
		UpdatedAt: now,
	}
	review.Record(ReviewSubmitted{ReviewID: review.ID, BookingID: review.BookingID, HostID: review.HostID, Overall: review.Ratings.Overall, At: now})
	return review, nil
}

func (r *Review) Update(ratings Ratings, text string, now time.Time) error {
	if r.HostRespondedAt != nil {
		return ErrLocked
	}
	if err := ratings.Validate(); err != nil {
		return err
	}
	r.Ratings = ratings
	r.Text = strings.TrimSpace(text)
	r.UpdatedAt = now.UTC()
	r.Record(ReviewUpdated{ReviewID: r.ID, HostID: r.HostID, At: r.UpdatedAt})
	return nil
}

// Respond attaches the host's one-time public reply.
func (r *Review) Respond(text string, now time.Time) error {
	if r.HostRespondedAt != nil {
		return ErrAlreadyResponded
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrResponseRequired
	}
	at := now.UTC()
	r.HostResponse = text
	r.HostRespondedAt = &at
	r.UpdatedAt = at
	return nil
}

// SetHidden is a moderation action and stays allowed after the host response.
// It reports whether the visibility changed.
func (r *Review) SetHidden(hidden bool, now time.Time) bool {
	if r.Hidden == hidden {
		return false
	}
	r.Hidden = hidden
	r.UpdatedAt = now.UTC()
	r.Record(ReviewModerated{ReviewID: r.ID, HostID: r.HostID, Hidden: hidden, At: r.UpdatedAt})
	return true
}

func (r *Review) Clone() *Review {
	clone := *r
	if r.HostRespondedAt != nil {
		at := *r.HostRespondedAt
		clone.HostRespondedAt = &at
	}
	clone.EventRecorder = events.EventRecorder{}
	return &clone
}

type ReviewSubmitted struct {
	ReviewID  ReviewID
	BookingID booking.BookingID
	HostID    hosts.HostID
	Overall   int
	At        time.Time
}

func (e ReviewSubmitted) EventName() string     { return "review.submitted" }
func (e ReviewSubmitted) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewSubmitted) OccurredAt() time.Time { return e.At }

type ReviewUpdated struct {
	ReviewID ReviewID
	HostID   hosts.HostID
	At       time.Time
}

func (e ReviewUpdated) EventName() string     { return "review.updated" }
func (e ReviewUpdated) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewUpdated) OccurredAt() time.Time { return e.At }

type ReviewModerated struct {
	ReviewID ReviewID
	HostID   hosts.HostID
	Hidden   bool
	At       time.Time
}

func (e ReviewModerated) EventName() string     { return "review.moderated" }
func (e ReviewModerated) AggregateID() string   { return string(e.ReviewID) }
func (e ReviewModerated) OccurredAt() time.Time { return e.At }
