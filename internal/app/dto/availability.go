package dto

import (
	"time"

	domainavailability "pethost/internal/domain/availability"
)

type AvailabilityBlock struct {
	ID               string    `json:"id"`
	HostID           string    `json:"host_id"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Blocked          bool      `json:"is_blocked"`
	MaxPetsAvailable *int      `json:"max_pets_available,omitempty"`
	CustomRate       *MoneyDTO `json:"custom_rate,omitempty"`
	Note             string    `json:"note,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type CalendarDay struct {
	Date     time.Time `json:"date"`
	Blocked  bool      `json:"is_blocked"`
	Capacity int       `json:"capacity"`
	Occupied int       `json:"occupied"`
	Free     int       `json:"free"`
}

// HostAvailability is the block list plus an optional per-day calendar.
type HostAvailability struct {
	HostID string              `json:"host_id"`
	Blocks []AvailabilityBlock `json:"blocks"`
	Days   []CalendarDay       `json:"days,omitempty"`
}

func MapBlock(b *domainavailability.Block) AvailabilityBlock {
	out := AvailabilityBlock{
		ID:               string(b.ID),
		HostID:           string(b.HostID),
		StartDate:        b.Range.CheckIn,
		EndDate:          b.Range.CheckOut,
		Blocked:          b.Blocked,
		MaxPetsAvailable: b.MaxPetsAvailable,
		Note:             b.Note,
		CreatedAt:        b.CreatedAt,
	}
	if b.CustomRate != nil {
		rate := MapMoney(*b.CustomRate)
		out.CustomRate = &rate
	}
	return out
}

func MapCalendar(days []domainavailability.Day) []CalendarDay {
	out := make([]CalendarDay, 0, len(days))
	for _, d := range days {
		out = append(out, CalendarDay{Date: d.Date, Blocked: d.Blocked, Capacity: d.Capacity, Occupied: d.Occupied, Free: d.Free()})
	}
	return out
}
