package pricing

import (
	"strings"

	"pethost/internal/domain/shared/daterange"
	"pethost/internal/domain/shared/errs"
	"pethost/internal/domain/shared/money"
)

var (
	ErrNegativeMultiplier = errs.New(errs.Validation, "pricing: size multipliers must be non-negative")
	ErrDiscountRange      = errs.New(errs.Validation, "pricing: duration discounts must be within [0, 1]")
	ErrRateNegative       = errs.New(errs.Validation, "pricing: base daily rate must be non-negative")
	ErrCurrencyUnset      = errs.New(errs.Validation, "pricing: currency must be defined")
)

const (
	WeeklyThresholdDays  = 7
	MonthlyThresholdDays = 30
)

type PetSize string

const (
	SizeSmall  PetSize = "small"
	SizeMedium PetSize = "medium"
	SizeLarge  PetSize = "large"
	SizeGiant  PetSize = "giant"
)

func NormalizeSize(raw string) PetSize {
	return PetSize(strings.ToLower(strings.TrimSpace(raw)))
}

// DurationDiscounts are fractions taken off long stays.
type DurationDiscounts struct {
	Weekly  float64
	Monthly float64
}

// Policy is the host-owned price configuration.
type Policy struct {
	BaseDailyRate   money.Money
	SizeMultipliers map[PetSize]float64
	Discounts       DurationDiscounts
}

func (p Policy) Validate() error {
	if p.BaseDailyRate.Currency == "" {
		return ErrCurrencyUnset
	}
	if p.BaseDailyRate.Amount < 0 {
		return ErrRateNegative
	}
	for _, m := range p.SizeMultipliers {
		if m < 0 {
			return ErrNegativeMultiplier
		}
	}
	if p.Discounts.Weekly < 0 || p.Discounts.Weekly > 1 || p.Discounts.Monthly < 0 || p.Discounts.Monthly > 1 {
		return ErrDiscountRange
	}
	return nil
}

// Multiplier returns the size factor, 1.0 when the size is unset or not priced.
func (p Policy) Multiplier(size PetSize) float64 {
	if size == "" {
		return 1.0
	}
	if m, ok := p.SizeMultipliers[size]; ok {
		return m
	}
	return 1.0
}

// Discount picks the monthly discount from 30 days, weekly from 7, otherwise none.
func (p Policy) Discount(days int) float64 {
	switch {
	case days >= MonthlyThresholdDays:
		return p.Discounts.Monthly
	case days >= WeeklyThresholdDays:
		return p.Discounts.Weekly
	default:
		return 0
	}
}

func (p Policy) Copy() Policy {
	clone := p
	if p.SizeMultipliers != nil {
		clone.SizeMultipliers = make(map[PetSize]float64, len(p.SizeMultipliers))
		for k, v := range p.SizeMultipliers {
			clone.SizeMultipliers[k] = v
		}
	}
	return clone
}

type AddOnCharge struct {
	ID     string
	Amount money.Money
}

// Breakdown is the frozen price of one reservation.
type Breakdown struct {
	DailyRate        money.Money
	DurationDays     int
	SizeMultiplier   float64
	BasePrice        money.Money
	DurationDiscount float64
	DiscountAmount   money.Money
	AddOns           []AddOnCharge
	AddOnFee         money.Money
	Total            money.Money
}

func (b Breakdown) Copy() Breakdown {
	clone := b
	clone.AddOns = append([]AddOnCharge(nil), b.AddOns...)
	return clone
}

type QuoteInput struct {
	Policy  Policy
	PetSize PetSize
	Range   daterange.DateRange
	AddOns  []string
}

type Calculator interface {
	Quote(input QuoteInput) (Breakdown, error)
}
