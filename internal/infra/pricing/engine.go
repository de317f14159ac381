package pricing

import (
	"context"
	"errors"

	"pethost/internal/app/policies"
	domainhosts "pethost/internal/domain/hosts"
	domainpricing "pethost/internal/domain/pricing"
	domainrange "pethost/internal/domain/shared/daterange"
)

var ErrPricingCalculatorMissing = errors.New("pricing: calculator missing")

// PortAdapter bridges the domain calculator into the application pricing port.
type PortAdapter struct {
	Calculator domainpricing.Calculator
}

func NewPortAdapter(addOns []domainpricing.AddOn) PortAdapter {
	return PortAdapter{Calculator: domainpricing.NewEngine(addOns)}
}

func (p PortAdapter) Quote(ctx context.Context, host *domainhosts.Host, size domainpricing.PetSize, dr domainrange.DateRange, addOns []string) (domainpricing.Breakdown, error) {
	if p.Calculator == nil {
		return domainpricing.Breakdown{}, ErrPricingCalculatorMissing
	}
	if err := ctx.Err(); err != nil {
		return domainpricing.Breakdown{}, err
	}
	return p.Calculator.Quote(domainpricing.QuoteInput{
		Policy:  host.Pricing,
		PetSize: size,
		Range:   dr,
		AddOns:  addOns,
	})
}

var _ policies.PricingPort = PortAdapter{}
