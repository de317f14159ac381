package hosts

import (
	"strings"
	"time"
)

// SearchSort defines a supported ordering.
type SearchSort string

const (
	SortByRating    SearchSort = "rating_desc"
	SortByPriceAsc  SearchSort = "price_asc"
	SortByPriceDesc SearchSort = "price_desc"
	SortByNewest    SearchSort = "newest"

	defaultSearchLimit = 24
	maxSearchLimit     = 60
)

// SearchParams describe host search filters and paging options.
type SearchParams struct {
	City          string
	Verified      *bool
	SuperHost     *bool
	MinRating     float64
	PriceMinCents int64
	PriceMaxCents int64
	Near          *GeoPoint
	RadiusKm      float64
	CheckIn       time.Time
	CheckOut      time.Time
	Sort          SearchSort
	Limit         int
	Offset        int
	IncludeAll    bool
}

// Normalized returns a sanitized copy of params.
func (p SearchParams) Normalized() SearchParams {
	n := p
	n.City = strings.TrimSpace(strings.ToLower(n.City))
	if n.MinRating < 0 {
		n.MinRating = 0
	}
	if n.PriceMinCents < 0 {
		n.PriceMinCents = 0
	}
	if n.PriceMaxCents > 0 && n.PriceMaxCents < n.PriceMinCents {
		n.PriceMaxCents = 0
	}
	if n.RadiusKm <= 0 {
		n.Near = nil
	}
	if !n.CheckIn.IsZero() && !n.CheckOut.IsZero() && !n.CheckOut.After(n.CheckIn) {
		n.CheckIn, n.CheckOut = time.Time{}, time.Time{}
	}
	if n.Limit <= 0 {
		n.Limit = defaultSearchLimit
	}
	if n.Limit > maxSearchLimit {
		n.Limit = maxSearchLimit
	}
	if n.Offset < 0 {
		n.Offset = 0
	}
	switch n.Sort {
	case SortByRating, SortByPriceAsc, SortByPriceDesc, SortByNewest:
	default:
		n.Sort = SortByRating
	}
	return n
}

// HasDates reports whether a date-range availability filter was requested.
func (p SearchParams) HasDates() bool {
	return !p.CheckIn.IsZero() && !p.CheckOut.IsZero()
}

// Matches applies the field filters that need no other aggregate.
func (p SearchParams) Matches(h *Host) bool {
	if !p.IncludeAll && !h.Active {
		return false
	}
	if p.City != "" && !strings.EqualFold(h.Address.City, p.City) {
		return false
	}
	if p.Verified != nil && h.Verified != *p.Verified {
		return false
	}
	if p.SuperHost != nil && h.SuperHost != *p.SuperHost {
		return false
	}
	if p.MinRating > 0 && h.Metrics.Rating < p.MinRating {
		return false
	}
	rate := h.Pricing.BaseDailyRate.Amount
	if p.PriceMinCents > 0 && rate < p.PriceMinCents {
		return false
	}
	if p.PriceMaxCents > 0 && rate > p.PriceMaxCents {
		return false
	}
	if p.Near != nil && DistanceKm(*p.Near, h.Address.Point()) > p.RadiusKm {
		return false
	}
	return true
}

// Less orders two hosts according to the sort option.
func (p SearchParams) Less(a, b *Host) bool {
	switch p.Sort {
	case SortByPriceAsc:
		if a.Pricing.BaseDailyRate.Amount == b.Pricing.BaseDailyRate.Amount {
			return a.Metrics.Rating > b.Metrics.Rating
		}
		return a.Pricing.BaseDailyRate.Amount < b.Pricing.BaseDailyRate.Amount
	case SortByPriceDesc:
		if a.Pricing.BaseDailyRate.Amount == b.Pricing.BaseDailyRate.Amount {
			return a.Metrics.Rating > b.Metrics.Rating
		}
		return a.Pricing.BaseDailyRate.Amount > b.Pricing.BaseDailyRate.Amount
	case SortByNewest:
		return a.CreatedAt.After(b.CreatedAt)
	default:
		if a.Metrics.Rating == b.Metrics.Rating {
			return a.Metrics.TotalReviews > b.Metrics.TotalReviews
		}
		return a.Metrics.Rating > b.Metrics.Rating
	}
}
