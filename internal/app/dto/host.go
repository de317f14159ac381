package dto

import (
	"time"

	domainhosts "pethost/internal/domain/hosts"
	"pethost/internal/domain/trust"
)

type Address struct {
	Line1   string  `json:"line1"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type Photo struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

type HostMetrics struct {
	ResponseRate     float64  `json:"response_rate"`
	AvgResponseHours *float64 `json:"avg_response_time_hours,omitempty"`
	CompletionRate   float64  `json:"completion_rate"`
	Rating           float64  `json:"rating"`
	TotalReviews     int      `json:"total_reviews"`
}

type Host struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id"`
	Title             string        `json:"title"`
	Description       string        `json:"description,omitempty"`
	Address           Address       `json:"address"`
	MaxPets           int           `json:"max_pets"`
	Pricing           PricingPolicy `json:"pricing"`
	Verified          bool          `json:"is_verified"`
	SuperHost         bool          `json:"is_super_host"`
	Active            bool          `json:"is_active"`
	Metrics           HostMetrics   `json:"metrics"`
	Photos            []Photo       `json:"photos"`
	TrustScore        float64       `json:"trust_score"`
	HasMinimumReviews bool          `json:"has_minimum_reviews"`
	SuperHostEligible bool          `json:"super_host_eligible"`
	DistanceKm        *float64      `json:"distance_km,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

type HostCollection = Page[Host]

func MapPhoto(p domainhosts.Photo) Photo {
	return Photo{ID: p.ID, URL: p.URL, Caption: p.Caption, IsPrimary: p.IsPrimary, CreatedAt: p.CreatedAt}
}

// MapHost includes the derived trust fields shown on host profiles.
func MapHost(h *domainhosts.Host) Host {
	photos := make([]Photo, 0, len(h.Photos))
	for _, p := range h.Photos {
		photos = append(photos, MapPhoto(p))
	}
	return Host{
		ID:          string(h.ID),
		UserID:      h.UserID,
		Title:       h.Title,
		Description: h.Description,
		Address: Address{
			Line1:   h.Address.Line1,
			City:    h.Address.City,
			Country: h.Address.Country,
			Lat:     h.Address.Lat,
			Lon:     h.Address.Lon,
		},
		MaxPets:   h.MaxPets,
		Pricing:   MapPricingPolicy(h.Pricing),
		Verified:  h.Verified,
		SuperHost: h.SuperHost,
		Active:    h.Active,
		Metrics: HostMetrics{
			ResponseRate:     h.Metrics.ResponseRate,
			AvgResponseHours: h.Metrics.AvgResponseHours,
			CompletionRate:   h.Metrics.CompletionRate,
			Rating:           h.Metrics.Rating,
			TotalReviews:     h.Metrics.TotalReviews,
		},
		Photos:            photos,
		TrustScore:        trust.Score(h),
		HasMinimumReviews: trust.HasMinimumReviews(h.Metrics),
		SuperHostEligible: trust.SuperHostEligible(h.Metrics),
		CreatedAt:         h.CreatedAt,
		UpdatedAt:         h.UpdatedAt,
	}
}
