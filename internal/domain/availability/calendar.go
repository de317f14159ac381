package availability

import (
	"time"

	"pethost/internal/domain/booking"
	"pethost/internal/domain/shared/daterange"
)

// MaxCalendarDays bounds a single calendar window.
const MaxCalendarDays = 92

// Day is one calendar cell of a host's schedule.
type Day struct {
	Date     time.Time
	Blocked  bool
	Capacity int
	Occupied int
}

func (d Day) Free() int {
	if d.Blocked || d.Occupied >= d.Capacity {
		return 0
	}
	return d.Capacity - d.Occupied
}

// Calendar lays out per-day capacity for window using the same rules as CheckHost.
func Calendar(maxPets int, blocks []*Block, bookings []*booking.Booking, window daterange.DateRange) []Day {
	ranges := make([]daterange.DateRange, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.In(booking.CapacityStatuses) {
			ranges = append(ranges, b.Range)
		}
	}
	days := make([]Day, 0, window.Days())
	window.EachDay(func(start time.Time) bool {
		if len(days) >= MaxCalendarDays {
			return false
		}
		cell := daterange.DateRange{CheckIn: start, CheckOut: start.Add(24 * time.Hour)}
		day := Day{Date: start, Capacity: maxPets}
		for _, block := range blocks {
			if !block.Range.Overlaps(cell) {
				continue
			}
			if block.Blocked {
				day.Blocked = true
			}
			if block.MaxPetsAvailable != nil && *block.MaxPetsAvailable < day.Capacity {
				day.Capacity = *block.MaxPetsAvailable
			}
		}
		day.Occupied = PeakOccupancy(ranges, cell)
		days = append(days, day)
		return true
	})
	return days
}
