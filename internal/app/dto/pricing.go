package dto

import domainpricing "pethost/internal/domain/pricing"

type PricingPolicy struct {
	BaseDailyRate   MoneyDTO           `json:"base_daily_rate"`
	SizeMultipliers map[string]float64 `json:"size_multipliers,omitempty"`
	WeeklyDiscount  float64            `json:"weekly_discount"`
	MonthlyDiscount float64            `json:"monthly_discount"`
}

type AddOnCharge struct {
	ID     string   `json:"id"`
	Amount MoneyDTO `json:"amount"`
}

type PriceBreakdown struct {
	DailyRate        MoneyDTO      `json:"daily_rate"`
	DurationDays     int           `json:"duration_days"`
	SizeMultiplier   float64       `json:"size_multiplier"`
	BasePrice        MoneyDTO      `json:"base_price"`
	DurationDiscount float64       `json:"duration_discount"`
	DiscountAmount   MoneyDTO      `json:"discount_amount"`
	AddOns           []AddOnCharge `json:"add_ons,omitempty"`
	AddOnFee         MoneyDTO      `json:"add_on_fee"`
	Total            MoneyDTO      `json:"total"`
}

func MapPricingPolicy(p domainpricing.Policy) PricingPolicy {
	out := PricingPolicy{
		BaseDailyRate:   MapMoney(p.BaseDailyRate),
		WeeklyDiscount:  p.Discounts.Weekly,
		MonthlyDiscount: p.Discounts.Monthly,
	}
	if len(p.SizeMultipliers) > 0 {
		out.SizeMultipliers = make(map[string]float64, len(p.SizeMultipliers))
		for size, m := range p.SizeMultipliers {
			out.SizeMultipliers[string(size)] = m
		}
	}
	return out
}

func MapPriceBreakdown(b domainpricing.Breakdown) PriceBreakdown {
	out := PriceBreakdown{
		DailyRate:        MapMoney(b.DailyRate),
		DurationDays:     b.DurationDays,
		SizeMultiplier:   b.SizeMultiplier,
		BasePrice:        MapMoney(b.BasePrice),
		DurationDiscount: b.DurationDiscount,
		DiscountAmount:   MapMoney(b.DiscountAmount),
		AddOnFee:         MapMoney(b.AddOnFee),
		Total:            MapMoney(b.Total),
	}
	for _, a := range b.AddOns {
		out.AddOns = append(out.AddOns, AddOnCharge{ID: a.ID, Amount: MapMoney(a.Amount)})
	}
	return out
}
