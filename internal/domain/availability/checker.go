package availability

import (
	"sort"

	"pethost/internal/domain/booking"
	"pethost/internal/domain/shared/daterange"
)

// HostCheck is the input of the host availability rule.
type HostCheck struct {
	MaxPets  int
	Blocks   []*Block
	Bookings []*booking.Booking
	Range    daterange.DateRange
	Exclude  booking.BookingID
}

// CheckHost rejects blocked dates and dates where the host is already full.
func CheckHost(in HostCheck) error {
	capacity := in.MaxPets
	for _, block := range in.Blocks {
		if !block.Range.Overlaps(in.Range) {
			continue
		}
		if block.Blocked {
			return ErrHostBlocked
		}
		if block.MaxPetsAvailable != nil && *block.MaxPetsAvailable < capacity {
			capacity = *block.MaxPetsAvailable
		}
	}
	if capacity <= 0 {
		return ErrHostAtCapacity
	}
	occupying := make([]daterange.DateRange, 0, len(in.Bookings))
	for _, b := range in.Bookings {
		if b.ID == in.Exclude || !b.Status.In(booking.CapacityStatuses) {
			continue
		}
		occupying = append(occupying, b.Range)
	}
	if PeakOccupancy(occupying, in.Range) >= capacity {
		return ErrHostAtCapacity
	}
	return nil
}

// CheckPet rejects a pet that already holds a live reservation on overlapping dates.
func CheckPet(petID string, bookings []*booking.Booking, dr daterange.DateRange, exclude booking.BookingID) error {
	for _, b := range bookings {
		if b.PetID != petID || b.ID == exclude {
			continue
		}
		if b.Status.In(booking.PetConflictStatuses) && b.Range.Overlaps(dr) {
			return ErrPetDoubleBooking
		}
	}
	return nil
}

// PeakOccupancy sweeps the ranges clipped to window and returns the highest number
// of simultaneous stays at any instant inside it.
func PeakOccupancy(ranges []daterange.DateRange, window daterange.DateRange) int {
	type edge struct {
		at    int64
		delta int
	}
	edges := make([]edge, 0, len(ranges)*2)
	for _, r := range ranges {
		if !r.Overlaps(window) {
			continue
		}
		start, end := r.CheckIn, r.CheckOut
		if start.Before(window.CheckIn) {
			start = window.CheckIn
		}
		if end.After(window.CheckOut) {
			end = window.CheckOut
		}
		edges = append(edges, edge{at: start.UnixNano(), delta: 1}, edge{at: end.UnixNano(), delta: -1})
	}
	// departures sort before arrivals at the same instant: [a,b) and [b,c) never overlap
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at == edges[j].at {
			return edges[i].delta < edges[j].delta
		}
		return edges[i].at < edges[j].at
	})
	peak, current := 0, 0
	for _, e := range edges {
		current += e.delta
		if current > peak {
			peak = current
		}
	}
	return peak
}
