package daterange

import (
	"math"
	"time"

	"pethost/internal/domain/shared/errs"
)

var ErrInvalidRange = errs.New(errs.Validation, "daterange: check-out must be after check-in")

const day = 24 * time.Hour

// DateRange represents a half-open interval [checkIn, checkOut)
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

func New(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.CheckOut.IsZero() || dr.CheckIn.IsZero() {
		return ErrInvalidRange
	}
	if !dr.CheckOut.After(dr.CheckIn) {
		return ErrInvalidRange
	}
	return nil
}

// Days is the stay length in whole days, rounding partial days up.
func (dr DateRange) Days() int {
	if !dr.CheckOut.After(dr.CheckIn) {
		return 0
	}
	return int(math.Ceil(dr.CheckOut.Sub(dr.CheckIn).Hours() / 24))
}

// Overlaps reports a0 < b1 && b0 < a1.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(dr.CheckOut)
}

func (dr DateRange) Equal(other DateRange) bool {
	return dr.CheckIn.Equal(other.CheckIn) && dr.CheckOut.Equal(other.CheckOut)
}

// EachDay walks every calendar day start in the range until fn returns false.
func (dr DateRange) EachDay(fn func(time.Time) bool) {
	for d := StartOfDay(dr.CheckIn); d.Before(dr.CheckOut); d = d.Add(day) {
		if !fn(d) {
			return
		}
	}
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
