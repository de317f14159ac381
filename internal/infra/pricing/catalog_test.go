package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainhosts "pethost/internal/domain/hosts"
	domainpricing "pethost/internal/domain/pricing"
	"pethost/internal/domain/shared/daterange"
)

func TestLoadAddOnCatalog_Defaults(t *testing.T) {
	assert.Equal(t, domainpricing.DefaultAddOns, LoadAddOnCatalog("", nil))
	assert.Equal(t, domainpricing.DefaultAddOns, LoadAddOnCatalog("{broken", nil))
	assert.Equal(t, domainpricing.DefaultAddOns, LoadAddOnCatalog(`[{"id":"","amount_cents":100}]`, nil))
}

func TestLoadAddOnCatalog_ParsesEntries(t *testing.T) {
	raw := `[{"id":" Bathing ","amount_cents":1800},{"id":"meds","amount_cents":300,"per_day":true},{"id":"bad","amount_cents":-1}]`
	got := LoadAddOnCatalog(raw, nil)
	assert.Equal(t, []domainpricing.AddOn{
		{ID: "bathing", AmountCents: 1800},
		{ID: "meds", AmountCents: 300, PerDay: true},
	}, got)
}

func TestPortAdapter_MissingCalculator(t *testing.T) {
	_, err := PortAdapter{}.Quote(context.Background(), &domainhosts.Host{}, domainpricing.SizeSmall, daterange.DateRange{}, nil)
	assert.ErrorIs(t, err, ErrPricingCalculatorMissing)
}

func TestPortAdapter_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPortAdapter(nil).Quote(ctx, &domainhosts.Host{}, domainpricing.SizeSmall, daterange.DateRange{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
