package dto

import (
	"time"

	domainreviews "pethost/internal/domain/reviews"
)

type Ratings struct {
	CareQuality   int `json:"care_quality" validate:"min=1,max=5"`
	Communication int `json:"communication" validate:"min=1,max=5"`
	Cleanliness   int `json:"cleanliness" validate:"min=1,max=5"`
	Value         int `json:"value" validate:"min=1,max=5"`
	Overall       int `json:"overall" validate:"min=1,max=5"`
}

type Review struct {
	ID              string     `json:"id"`
	BookingID       string     `json:"booking_id"`
	HostID          string     `json:"host_id"`
	AuthorID        string     `json:"author_id"`
	Ratings         Ratings    `json:"ratings"`
	Text            string     `json:"text,omitempty"`
	HostResponse    string     `json:"host_response,omitempty"`
	HostRespondedAt *time.Time `json:"host_responded_at,omitempty"`
	Hidden          bool       `json:"hidden,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ReviewCollection = Page[Review]

func MapReview(r *domainreviews.Review) Review {
	return Review{
		ID:        string(r.ID),
		BookingID: string(r.BookingID),
		HostID:    string(r.HostID),
		AuthorID:  r.AuthorID,
		Ratings: Ratings{
			CareQuality:   r.Ratings.CareQuality,
			Communication: r.Ratings.Communication,
			Cleanliness:   r.Ratings.Cleanliness,
			Value:         r.Ratings.Value,
			Overall:       r.Ratings.Overall,
		},
		Text:            r.Text,
		HostResponse:    r.HostResponse,
		HostRespondedAt: r.HostRespondedAt,
		Hidden:          r.Hidden,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (r Ratings) ToDomain() domainreviews.Ratings {
	return domainreviews.Ratings{
		CareQuality:   r.CareQuality,
		Communication: r.Communication,
		Cleanliness:   r.Cleanliness,
		Value:         r.Value,
		Overall:       r.Overall,
	}
}
