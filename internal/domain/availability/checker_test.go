package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/domain/booking"
	"pethost/internal/domain/shared/daterange"
	"pethost/internal/domain/shared/errs"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func stay(from, to int) daterange.DateRange {
	return daterange.DateRange{CheckIn: day(from), CheckOut: day(to)}
}

func reservation(id string, pet string, status booking.Status, dr daterange.DateRange) *booking.Booking {
	return &booking.Booking{ID: booking.BookingID(id), HostID: "h-1", PetID: pet, Range: dr, Status: status}
}

func intPtr(v int) *int { return &v }

func TestCheckHost_CapacityOfOne(t *testing.T) {
	existing := []*booking.Booking{reservation("b-1", "pet-a", booking.StatusConfirmed, stay(5, 10))}

	err := CheckHost(HostCheck{MaxPets: 1, Bookings: existing, Range: stay(8, 12)})
	assert.ErrorIs(t, err, ErrHostAtCapacity)
	assert.ErrorIs(t, err, errs.Conflict)

	assert.NoError(t, CheckHost(HostCheck{MaxPets: 1, Bookings: existing, Range: stay(11, 15)}))
	assert.NoError(t, CheckHost(HostCheck{MaxPets: 1, Bookings: existing, Range: stay(10, 12)}), "check-out day is free")
}

func TestCheckHost_IgnoresNonOccupyingAndExcluded(t *testing.T) {
	existing := []*booking.Booking{
		reservation("b-1", "pet-a", booking.StatusPendingApproval, stay(5, 10)),
		reservation("b-2", "pet-b", booking.StatusCancelled, stay(5, 10)),
		reservation("b-3", "pet-c", booking.StatusApproved, stay(5, 10)),
	}

	assert.ErrorIs(t, CheckHost(HostCheck{MaxPets: 1, Bookings: existing, Range: stay(6, 7)}), ErrHostAtCapacity)
	assert.NoError(t, CheckHost(HostCheck{MaxPets: 1, Bookings: existing, Range: stay(6, 7), Exclude: "b-3"}))
	assert.NoError(t, CheckHost(HostCheck{MaxPets: 2, Bookings: existing, Range: stay(6, 7)}))
}

func TestCheckHost_SweepCountsSimultaneousStays(t *testing.T) {
	// two stays that never overlap each other leave room for a second pet
	existing := []*booking.Booking{
		reservation("b-1", "pet-a", booking.StatusConfirmed, stay(1, 5)),
		reservation("b-2", "pet-b", booking.StatusInProgress, stay(5, 9)),
	}
	assert.NoError(t, CheckHost(HostCheck{MaxPets: 2, Bookings: existing, Range: stay(3, 7)}))

	existing = append(existing, reservation("b-3", "pet-c", booking.StatusApproved, stay(4, 6)))
	assert.ErrorIs(t, CheckHost(HostCheck{MaxPets: 2, Bookings: existing, Range: stay(3, 7)}), ErrHostAtCapacity)
}

func TestCheckHost_Blocks(t *testing.T) {
	blocked := []*Block{{ID: "bl-1", HostID: "h-1", Range: stay(10, 12), Blocked: true}}
	assert.ErrorIs(t, CheckHost(HostCheck{MaxPets: 3, Blocks: blocked, Range: stay(11, 14)}), ErrHostBlocked)
	assert.NoError(t, CheckHost(HostCheck{MaxPets: 3, Blocks: blocked, Range: stay(12, 14)}))

	reduced := []*Block{{ID: "bl-2", HostID: "h-1", Range: stay(1, 20), MaxPetsAvailable: intPtr(1)}}
	existing := []*booking.Booking{reservation("b-1", "pet-a", booking.StatusConfirmed, stay(5, 10))}
	assert.ErrorIs(t, CheckHost(HostCheck{MaxPets: 3, Blocks: reduced, Bookings: existing, Range: stay(6, 8)}), ErrHostAtCapacity)

	closed := []*Block{{ID: "bl-3", HostID: "h-1", Range: stay(1, 20), MaxPetsAvailable: intPtr(0)}}
	assert.ErrorIs(t, CheckHost(HostCheck{MaxPets: 3, Blocks: closed, Range: stay(6, 8)}), ErrHostAtCapacity)
}

func TestCheckPet_OverlapWithLiveReservation(t *testing.T) {
	existing := []*booking.Booking{
		reservation("b-1", "pet-a", booking.StatusPendingApproval, stay(5, 10)),
		reservation("b-2", "pet-b", booking.StatusConfirmed, stay(5, 10)),
		reservation("b-3", "pet-c", booking.StatusRejected, stay(5, 10)),
	}

	err := CheckPet("pet-a", existing, stay(9, 11), "")
	assert.ErrorIs(t, err, ErrPetDoubleBooking)
	assert.NoError(t, CheckPet("pet-a", existing, stay(9, 11), "b-1"))
	assert.NoError(t, CheckPet("pet-a", existing, stay(10, 11), ""))
	assert.NoError(t, CheckPet("pet-c", existing, stay(6, 7), ""))
}

func TestPeakOccupancy_ClipsToWindow(t *testing.T) {
	ranges := []daterange.DateRange{stay(1, 4), stay(3, 6), stay(8, 9)}

	assert.Equal(t, 2, PeakOccupancy(ranges, stay(1, 10)))
	assert.Equal(t, 1, PeakOccupancy(ranges, stay(4, 8)))
	assert.Equal(t, 0, PeakOccupancy(ranges, stay(6, 8)))
}

func TestCalendar_DayCells(t *testing.T) {
	blocks := []*Block{
		{ID: "bl-1", Range: stay(3, 4), Blocked: true},
		{ID: "bl-2", Range: stay(4, 6), MaxPetsAvailable: intPtr(1)},
	}
	bookings := []*booking.Booking{
		reservation("b-1", "pet-a", booking.StatusConfirmed, stay(1, 3)),
		reservation("b-2", "pet-b", booking.StatusPendingApproval, stay(1, 6)),
		reservation("b-3", "pet-c", booking.StatusApproved, stay(5, 7)),
	}

	days := Calendar(2, blocks, bookings, stay(1, 7))
	require.Len(t, days, 6)

	assert.Equal(t, day(1), days[0].Date)
	assert.Equal(t, 1, days[0].Occupied)
	assert.Equal(t, 1, days[0].Free())

	assert.True(t, days[2].Blocked)
	assert.Equal(t, 0, days[2].Free())

	assert.Equal(t, 1, days[3].Capacity)
	assert.Equal(t, 1, days[3].Free())

	assert.Equal(t, 1, days[4].Occupied)
	assert.Equal(t, 0, days[4].Free())

	assert.Equal(t, 2, days[5].Capacity)
	assert.Equal(t, 1, days[5].Free())
}

func TestCalendar_CapsWindow(t *testing.T) {
	window := daterange.DateRange{CheckIn: day(1), CheckOut: day(1).AddDate(1, 0, 0)}
	days := Calendar(1, nil, nil, window)
	assert.Len(t, days, MaxCalendarDays)
}

func TestNewBlock_Validation(t *testing.T) {
	_, err := NewBlock(NewBlockParams{ID: "bl", HostID: "h-1", Range: stay(5, 5)})
	assert.Error(t, err)

	_, err = NewBlock(NewBlockParams{ID: "bl", HostID: "h-1", Range: stay(5, 6), MaxPetsAvailable: intPtr(-1)})
	assert.ErrorIs(t, err, ErrInvalidOverride)

	block, err := NewBlock(NewBlockParams{ID: "bl", HostID: "h-1", Range: stay(5, 6), Blocked: true, Note: " vacation ", Now: day(1)})
	require.NoError(t, err)
	assert.Equal(t, "vacation", block.Note)
	require.Len(t, block.PendingEvents(), 1)
	assert.Equal(t, "availability.block_created", block.PendingEvents()[0].EventName())
}
