package pricing

import (
	"strings"

	"pethost/internal/domain/shared/money"
)

// AddOn is a priced extra service. PerDay fees are charged for every day of the stay.
type AddOn struct {
	ID          string
	AmountCents int64
	PerDay      bool
}

// DefaultAddOns is the platform-wide add-on catalog.
var DefaultAddOns = []AddOn{
	{ID: "grooming", AmountCents: 2500},
	{ID: "pickup_dropoff", AmountCents: 2000},
	{ID: "medication", AmountCents: 500, PerDay: true},
	{ID: "training", AmountCents: 1500, PerDay: true},
	{ID: "walking", AmountCents: 1000, PerDay: true},
}

// Engine is a deterministic calculator with no I/O.
type Engine struct {
	catalog map[string]AddOn
}

func NewEngine(addOns []AddOn) *Engine {
	if addOns == nil {
		addOns = DefaultAddOns
	}
	catalog := make(map[string]AddOn, len(addOns))
	for _, a := range addOns {
		catalog[strings.ToLower(a.ID)] = a
	}
	return &Engine{catalog: catalog}
}

func (e *Engine) Quote(input QuoteInput) (Breakdown, error) {
	if err := input.Range.Validate(); err != nil {
		return Breakdown{}, err
	}
	policy := input.Policy
	if err := policy.Validate(); err != nil {
		return Breakdown{}, err
	}
	days := input.Range.Days()
	multiplier := policy.Multiplier(input.PetSize)
	discount := policy.Discount(days)

	// each amount is rounded to cents as it is stored, so
	// BasePrice - DiscountAmount + AddOnFee == Total holds exactly
	base := policy.BaseDailyRate.Multiply(int64(days)).Scale(multiplier)
	discounted := base.Scale(1 - discount)
	discountAmount, err := base.Sub(discounted)
	if err != nil {
		return Breakdown{}, err
	}

	fee := base.Zero()
	charges := make([]AddOnCharge, 0, len(input.AddOns))
	for _, id := range input.AddOns {
		addOn, ok := e.catalog[strings.ToLower(strings.TrimSpace(id))]
		if !ok {
			continue
		}
		amount := money.Money{Amount: addOn.AmountCents, Currency: base.Currency}
		if addOn.PerDay {
			amount = amount.Multiply(int64(days))
		}
		if fee, err = fee.Add(amount); err != nil {
			return Breakdown{}, err
		}
		charges = append(charges, AddOnCharge{ID: addOn.ID, Amount: amount})
	}
	total, err := discounted.Add(fee)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		DailyRate:        policy.BaseDailyRate,
		DurationDays:     days,
		SizeMultiplier:   multiplier,
		BasePrice:        base,
		DurationDiscount: discount,
		DiscountAmount:   discountAmount,
		AddOns:           charges,
		AddOnFee:         fee,
		Total:            total,
	}, nil
}

var _ Calculator = (*Engine)(nil)
