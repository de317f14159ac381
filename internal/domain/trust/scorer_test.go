package trust

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/domain/booking"
	"pethost/internal/domain/hosts"
	"pethost/internal/domain/reviews"
)

var created = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func responded(id string, after time.Duration, approved bool) *booking.Booking {
	at := created.Add(after)
	b := &booking.Booking{ID: booking.BookingID(id), CreatedAt: created}
	if approved {
		b.Status = booking.StatusApproved
		b.ApprovedAt = &at
	} else {
		b.Status = booking.StatusRejected
		b.RejectedAt = &at
	}
	return b
}

func withStatus(id string, status booking.Status) *booking.Booking {
	return &booking.Booking{ID: booking.BookingID(id), Status: status, CreatedAt: created}
}

func TestResponse_RateAndLatency(t *testing.T) {
	list := []*booking.Booking{
		responded("b-1", 2*time.Hour, true),
		responded("b-2", 4*time.Hour, false),
		withStatus("b-3", booking.StatusPendingApproval),
		withStatus("b-4", booking.StatusCancelled),
	}

	m := Response(list)
	assert.InDelta(t, 50.0, m.Rate, 1e-9)
	require.NotNil(t, m.AvgHours)
	assert.InDelta(t, 3.0, *m.AvgHours, 1e-9)
}

func TestResponse_NoAnswersLeavesLatencyUnset(t *testing.T) {
	m := Response([]*booking.Booking{withStatus("b-1", booking.StatusPendingApproval)})
	assert.Zero(t, m.Rate)
	assert.Nil(t, m.AvgHours)

	assert.Equal(t, ResponseMetrics{}, Response(nil))
}

func TestCompletionRate(t *testing.T) {
	list := []*booking.Booking{
		withStatus("b-1", booking.StatusCompleted),
		withStatus("b-2", booking.StatusCompleted),
		withStatus("b-3", booking.StatusCompleted),
		withStatus("b-4", booking.StatusInProgress),
		withStatus("b-5", booking.StatusCancelled),
		withStatus("b-6", booking.StatusPendingApproval),
	}
	assert.InDelta(t, 75.0, CompletionRate(list), 1e-9)
	assert.Zero(t, CompletionRate([]*booking.Booking{withStatus("b-1", booking.StatusCancelled)}))
}

func TestRating_RoundsToTwoDecimals(t *testing.T) {
	list := []*reviews.Review{
		{Ratings: reviews.Ratings{Overall: 5}},
		{Ratings: reviews.Ratings{Overall: 5}},
		{Ratings: reviews.Ratings{Overall: 4}},
	}
	avg, total := Rating(list)
	assert.Equal(t, 4.67, avg)
	assert.Equal(t, 3, total)

	avg, total = Rating(nil)
	assert.Zero(t, avg)
	assert.Zero(t, total)
}

func TestSuperHostEligible(t *testing.T) {
	qualifying := hosts.Metrics{ResponseRate: 92, CompletionRate: 96, Rating: 4.85, TotalReviews: 12}
	assert.True(t, SuperHostEligible(qualifying))

	cases := map[string]func(m *hosts.Metrics){
		"response":   func(m *hosts.Metrics) { m.ResponseRate = 89.9 },
		"completion": func(m *hosts.Metrics) { m.CompletionRate = 94 },
		"rating":     func(m *hosts.Metrics) { m.Rating = 4.79 },
		"reviews":    func(m *hosts.Metrics) { m.TotalReviews = 9 },
	}
	for name, mutate := range cases {
		m := qualifying
		mutate(&m)
		assert.False(t, SuperHostEligible(m), name)
	}
}

func TestHasMinimumReviews(t *testing.T) {
	assert.False(t, HasMinimumReviews(hosts.Metrics{TotalReviews: 2}))
	assert.True(t, HasMinimumReviews(hosts.Metrics{TotalReviews: 3}))
}

func TestScore_Composite(t *testing.T) {
	h := &hosts.Host{
		Verified:  true,
		SuperHost: true,
		Metrics:   hosts.Metrics{ResponseRate: 100, CompletionRate: 50, Rating: 4},
	}
	assert.Equal(t, 88.0, Score(h))
	assert.Zero(t, Score(&hosts.Host{}))
}

func TestApply_GrantsSuperHostOnce(t *testing.T) {
	h := &hosts.Host{ID: "h-1", Metrics: hosts.Metrics{ResponseRate: 92, CompletionRate: 96}}
	list := make([]*reviews.Review, 0, 12)
	for i := 0; i < 12; i++ {
		overall := 5
		if i%10 == 0 {
			overall = 4
		}
		list = append(list, &reviews.Review{Ratings: reviews.Ratings{Overall: overall}})
	}

	granted := Apply(h, TriggerRating, History{Reviews: list}, created)
	assert.True(t, granted)
	assert.True(t, h.SuperHost)
	assert.Equal(t, 12, h.Metrics.TotalReviews)
	assert.Equal(t, 4.83, h.Metrics.Rating)

	metrics := h.Metrics
	assert.False(t, Apply(h, TriggerRating, History{Reviews: list}, created))
	assert.Equal(t, metrics, h.Metrics)
	require.Len(t, h.PendingEvents(), 1)
	assert.Equal(t, "host.superhost_granted", h.PendingEvents()[0].EventName())
}

func TestApply_RecomputeIsIdempotent(t *testing.T) {
	reviewsList := []*reviews.Review{
		{Ratings: reviews.Ratings{Overall: 5}},
		{Ratings: reviews.Ratings{Overall: 3}},
		{Ratings: reviews.Ratings{Overall: 4}},
	}
	bookingsList := []*booking.Booking{
		withStatus("b-1", booking.StatusCompleted),
		withStatus("b-2", booking.StatusCancelled),
		withStatus("b-3", booking.StatusInProgress),
		responded("b-4", 2*time.Hour, true),
		responded("b-5", 30*time.Hour, false),
	}
	hist := History{Bookings: bookingsList, Reviews: reviewsList}

	for _, trigger := range []Trigger{TriggerResponse, TriggerCompletion, TriggerRating} {
		h := &hosts.Host{ID: "h-1"}
		Apply(h, trigger, hist, created)
		first := h.Metrics
		firstBadge := h.SuperHost

		Apply(h, trigger, hist, created.Add(time.Hour))
		assert.Equal(t, first, h.Metrics, "trigger %v", trigger)
		assert.Equal(t, firstBadge, h.SuperHost, "trigger %v", trigger)
	}
}

func TestApply_NeverRevokes(t *testing.T) {
	h := &hosts.Host{ID: "h-1", SuperHost: true, Metrics: hosts.Metrics{ResponseRate: 99, Rating: 5, TotalReviews: 20}}
	list := []*booking.Booking{
		withStatus("b-1", booking.StatusCompleted),
		withStatus("b-2", booking.StatusCancelled),
		withStatus("b-3", booking.StatusConfirmed),
	}

	assert.False(t, Apply(h, TriggerCompletion, History{Bookings: list}, created))
	assert.InDelta(t, 50.0, h.Metrics.CompletionRate, 1e-9)
	assert.True(t, h.SuperHost)
}

func TestApply_ResponseTriggerSkipsBadge(t *testing.T) {
	h := &hosts.Host{ID: "h-1", Metrics: hosts.Metrics{CompletionRate: 100, Rating: 5, TotalReviews: 50}}

	granted := Apply(h, TriggerResponse, History{Bookings: []*booking.Booking{responded("b-1", time.Hour, true)}}, created)
	assert.False(t, granted)
	assert.False(t, h.SuperHost)
	assert.InDelta(t, 100.0, h.Metrics.ResponseRate, 1e-9)
}
