// Package trust derives host reputation from booking and review history.
// Every function recomputes from the full history it is given, so running
// it twice over the same input yields the same metrics.
package trust

import (
	"math"

	"pethost/internal/domain/booking"
	"pethost/internal/domain/hosts"
	"pethost/internal/domain/reviews"
)

const (
	SuperHostMinResponseRate   = 90.0
	SuperHostMinRating         = 4.8
	SuperHostMinReviews        = 10
	SuperHostMinCompletionRate = 95.0
	MinimumReviewsForDisplay   = 3
	MaxTrustScore              = 100.0
)

type ResponseMetrics struct {
	Rate     float64
	AvgHours *float64
}

// Response returns the share of requests the host answered and the mean
// latency of those answers. AvgHours stays nil until at least one booking
// has been approved or rejected.
func Response(bookings []*booking.Booking) ResponseMetrics {
	if len(bookings) == 0 {
		return ResponseMetrics{}
	}
	var responded int
	var totalHours float64
	for _, b := range bookings {
		at, ok := b.RespondedAt()
		if !ok {
			continue
		}
		responded++
		totalHours += at.Sub(b.CreatedAt).Hours()
	}
	out := ResponseMetrics{Rate: float64(responded) / float64(len(bookings)) * 100}
	if responded > 0 {
		avg := totalHours / float64(responded)
		out.AvgHours = &avg
	}
	return out
}

// CompletionRate is completed over confirmed-or-later bookings, in percent.
func CompletionRate(bookings []*booking.Booking) float64 {
	var completed, eligible int
	for _, b := range bookings {
		if !b.Status.In(booking.ConfirmedOrLater) {
			continue
		}
		eligible++
		if b.Status == booking.StatusCompleted {
			completed++
		}
	}
	if eligible == 0 {
		return 0
	}
	return float64(completed) / float64(eligible) * 100
}

// Rating averages the overall sub-rating, rounded to 2 decimals.
func Rating(list []*reviews.Review) (float64, int) {
	if len(list) == 0 {
		return 0, 0
	}
	var sum int
	for _, r := range list {
		sum += r.Ratings.Overall
	}
	return round2(float64(sum) / float64(len(list))), len(list)
}

// Score is the display-only composite shown on host profiles.
func Score(h *hosts.Host) float64 {
	score := 0.0
	if h.Verified {
		score += 20
	}
	if h.SuperHost {
		score += 30
	}
	score += 20 * h.Metrics.ResponseRate / 100
	score += 20 * h.Metrics.CompletionRate / 100
	score += 10 * h.Metrics.Rating / 5
	return math.Min(round2(score), MaxTrustScore)
}

func SuperHostEligible(m hosts.Metrics) bool {
	return m.ResponseRate >= SuperHostMinResponseRate &&
		m.Rating >= SuperHostMinRating &&
		m.TotalReviews >= SuperHostMinReviews &&
		m.CompletionRate >= SuperHostMinCompletionRate
}

func HasMinimumReviews(m hosts.Metrics) bool {
	return m.TotalReviews >= MinimumReviewsForDisplay
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
