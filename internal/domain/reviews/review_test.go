package reviews

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/domain/booking"
	"pethost/internal/domain/shared/errs"
)

var now = time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)

func fives() Ratings {
	return Ratings{CareQuality: 5, Communication: 5, Cleanliness: 5, Value: 5, Overall: 5}
}

func completed() *booking.Booking {
	return &booking.Booking{ID: "b-1", HostID: "h-1", OwnerID: "owner-1", Status: booking.StatusCompleted}
}

func TestSubmit(t *testing.T) {
	r, err := Submit(SubmitParams{ID: "r-1", Booking: completed(), Ratings: fives(), Text: " great ", CreatedAt: now})
	require.NoError(t, err)

	assert.Equal(t, booking.BookingID("b-1"), r.BookingID)
	assert.Equal(t, "owner-1", r.AuthorID)
	assert.Equal(t, "great", r.Text)
	require.Len(t, r.PendingEvents(), 1)
	assert.Equal(t, "review.submitted", r.PendingEvents()[0].EventName())
}

func TestSubmit_Rejections(t *testing.T) {
	_, err := Submit(SubmitParams{ID: "r-1", Booking: completed(), HasReview: true, Ratings: fives()})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.ErrorIs(t, err, errs.Conflict)

	confirmed := completed()
	confirmed.Status = booking.StatusConfirmed
	_, err = Submit(SubmitParams{ID: "r-1", Booking: confirmed, Ratings: fives()})
	assert.ErrorIs(t, err, ErrNotReviewable)

	bad := fives()
	bad.Value = 6
	_, err = Submit(SubmitParams{ID: "r-1", Booking: completed(), Ratings: bad})
	assert.ErrorIs(t, err, ErrInvalidRating)
	bad.Value = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidRating)
}

func TestReview_UpdateLockedAfterResponse(t *testing.T) {
	r, err := Submit(SubmitParams{ID: "r-1", Booking: completed(), Ratings: fives(), CreatedAt: now})
	require.NoError(t, err)

	lower := fives()
	lower.Overall = 3
	require.NoError(t, r.Update(lower, "ok", now))
	assert.Equal(t, 3, r.Ratings.Overall)

	assert.ErrorIs(t, r.Respond("   ", now), ErrResponseRequired)
	require.NoError(t, r.Respond("thanks!", now))
	require.NotNil(t, r.HostRespondedAt)

	assert.ErrorIs(t, r.Respond("again", now), ErrAlreadyResponded)
	assert.ErrorIs(t, r.Update(fives(), "changed", now), ErrLocked)

	r.ClearEvents()
	assert.True(t, r.SetHidden(true, now))
	assert.True(t, r.Hidden)
	assert.False(t, r.SetHidden(true, now))
	require.Len(t, r.PendingEvents(), 1)
	assert.Equal(t, "review.moderated", r.PendingEvents()[0].EventName())
}
