package policies

import (
	"context"

	domainhosts "pethost/internal/domain/hosts"
	domainpricing "pethost/internal/domain/pricing"
	domainrange "pethost/internal/domain/shared/daterange"
)

// PricingPort quotes a stay at a host for a pet of the given size.
type PricingPort interface {
	Quote(ctx context.Context, host *domainhosts.Host, size domainpricing.PetSize, dr domainrange.DateRange, addOns []string) (domainpricing.Breakdown, error)
}
