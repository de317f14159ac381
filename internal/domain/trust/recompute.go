package trust

import (
	"time"

	"pethost/internal/domain/booking"
	"pethost/internal/domain/hosts"
	"pethost/internal/domain/reviews"
)

// Trigger names the history change that caused a recompute.
type Trigger int

const (
	TriggerResponse Trigger = iota + 1
	TriggerCompletion
	TriggerRating
)

// History is everything the scorer reads for a single host.
type History struct {
	Bookings []*booking.Booking
	Reviews  []*reviews.Review
}

// Apply recomputes the metrics a trigger owns and re-evaluates the
// super-host badge after completion or rating changes. It reports whether
// the badge was newly granted.
func Apply(h *hosts.Host, trigger Trigger, hist History, now time.Time) bool {
	switch trigger {
	case TriggerResponse:
		m := Response(hist.Bookings)
		h.SetResponseMetrics(m.Rate, m.AvgHours, now)
		return false
	case TriggerCompletion:
		h.SetCompletionRate(CompletionRate(hist.Bookings), now)
	case TriggerRating:
		rating, total := Rating(hist.Reviews)
		h.SetRating(rating, total, now)
	default:
		return false
	}
	if SuperHostEligible(h.Metrics) {
		return h.GrantSuperHost(now)
	}
	return false
}
