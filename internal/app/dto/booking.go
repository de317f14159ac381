package dto

import (
	"time"

	domainbooking "pethost/internal/domain/booking"
)

type Booking struct {
	ID               string         `json:"id"`
	HostID           string         `json:"host_id"`
	PetID            string         `json:"pet_id"`
	OwnerID          string         `json:"owner_id"`
	CheckIn          time.Time      `json:"check_in"`
	CheckOut         time.Time      `json:"check_out"`
	DurationDays     int            `json:"duration_days"`
	PetSize          string         `json:"pet_size,omitempty"`
	AddOns           []string       `json:"add_ons,omitempty"`
	Price            PriceBreakdown `json:"price"`
	Status           string         `json:"status"`
	PaymentStatus    string         `json:"payment_status"`
	ApprovedAt       *time.Time     `json:"approved_at,omitempty"`
	RejectedAt       *time.Time     `json:"rejected_at,omitempty"`
	RejectionReason  string         `json:"rejection_reason,omitempty"`
	CareInstructions string         `json:"care_instructions,omitempty"`
	CanBeReviewed    bool           `json:"can_be_reviewed"`
	IsUpcoming       bool           `json:"is_upcoming"`
	IsOverdue        bool           `json:"is_overdue"`
	NextStatuses     []string       `json:"next_statuses,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type BookingCollection = Page[Booking]

// MapBooking adds the derived lifecycle flags evaluated at now.
func MapBooking(b *domainbooking.Booking, hasReview bool, now time.Time) Booking {
	next := make([]string, 0, 3)
	for _, s := range b.Status.NextStatuses() {
		next = append(next, string(s))
	}
	return Booking{
		ID:               string(b.ID),
		HostID:           string(b.HostID),
		PetID:            b.PetID,
		OwnerID:          b.OwnerID,
		CheckIn:          b.Range.CheckIn,
		CheckOut:         b.Range.CheckOut,
		DurationDays:     b.DurationDays(),
		PetSize:          string(b.PetSize),
		AddOns:           append([]string(nil), b.AddOns...),
		Price:            MapPriceBreakdown(b.Price),
		Status:           string(b.Status),
		PaymentStatus:    string(b.PaymentStatus),
		ApprovedAt:       b.ApprovedAt,
		RejectedAt:       b.RejectedAt,
		RejectionReason:  b.RejectionReason,
		CareInstructions: b.CareInstructions,
		CanBeReviewed:    b.CanBeReviewed(hasReview),
		IsUpcoming:       b.IsUpcoming(now),
		IsOverdue:        b.IsOverdue(now),
		NextStatuses:     next,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}
