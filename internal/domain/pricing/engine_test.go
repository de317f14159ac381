package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pethost/internal/domain/shared/daterange"
	"pethost/internal/domain/shared/money"
)

func stay(days int) daterange.DateRange {
	in := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return daterange.DateRange{CheckIn: in, CheckOut: in.AddDate(0, 0, days)}
}

func policy() Policy {
	return Policy{
		BaseDailyRate:   money.Must(3000, "USD"),
		SizeMultipliers: map[PetSize]float64{SizeSmall: 1.0, SizeMedium: 1.2, SizeLarge: 1.5, SizeGiant: 2.0},
		Discounts:       DurationDiscounts{Weekly: 0.1, Monthly: 0.2},
	}
}

func TestQuote_LargeDogWeeklyDiscount(t *testing.T) {
	engine := NewEngine(nil)

	b, err := engine.Quote(QuoteInput{Policy: policy(), PetSize: SizeLarge, Range: stay(7)})
	require.NoError(t, err)

	assert.Equal(t, 7, b.DurationDays)
	assert.Equal(t, 1.5, b.SizeMultiplier)
	assert.Equal(t, int64(31500), b.BasePrice.Amount)
	assert.Equal(t, 0.1, b.DurationDiscount)
	assert.Equal(t, int64(3150), b.DiscountAmount.Amount)
	assert.Equal(t, int64(28350), b.Total.Amount)
	assert.Equal(t, "USD", b.Total.Currency)
}

func TestQuote_DiscountThresholds(t *testing.T) {
	engine := NewEngine(nil)

	short, err := engine.Quote(QuoteInput{Policy: policy(), PetSize: SizeSmall, Range: stay(6)})
	require.NoError(t, err)
	assert.Zero(t, short.DurationDiscount)
	assert.Equal(t, int64(18000), short.Total.Amount)

	month, err := engine.Quote(QuoteInput{Policy: policy(), PetSize: SizeSmall, Range: stay(30)})
	require.NoError(t, err)
	assert.Equal(t, 0.2, month.DurationDiscount)
	assert.Equal(t, int64(72000), month.Total.Amount)
}

func TestQuote_AddOnsAreNotDiscounted(t *testing.T) {
	engine := NewEngine(nil)

	b, err := engine.Quote(QuoteInput{
		Policy:  policy(),
		PetSize: SizeSmall,
		Range:   stay(7),
		AddOns:  []string{"grooming", " Walking ", "unknown"},
	})
	require.NoError(t, err)

	require.Len(t, b.AddOns, 2)
	assert.Equal(t, "grooming", b.AddOns[0].ID)
	assert.Equal(t, int64(2500), b.AddOns[0].Amount.Amount)
	assert.Equal(t, "walking", b.AddOns[1].ID)
	assert.Equal(t, int64(7000), b.AddOns[1].Amount.Amount)
	assert.Equal(t, int64(9500), b.AddOnFee.Amount)
	// 3000*7 = 21000, less 10% = 18900, plus add-ons
	assert.Equal(t, int64(28400), b.Total.Amount)
}

func TestQuote_UnknownSizeUsesNeutralMultiplier(t *testing.T) {
	b, err := NewEngine(nil).Quote(QuoteInput{Policy: policy(), PetSize: "hamster", Range: stay(2)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, b.SizeMultiplier)
	assert.Equal(t, int64(6000), b.Total.Amount)
}

func TestQuote_RejectsInvalidInput(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.Quote(QuoteInput{Policy: policy(), Range: daterange.DateRange{}})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	bad := policy()
	bad.Discounts.Weekly = 1.5
	_, err = engine.Quote(QuoteInput{Policy: bad, Range: stay(3)})
	assert.ErrorIs(t, err, ErrDiscountRange)

	noCurrency := policy()
	noCurrency.BaseDailyRate.Currency = ""
	_, err = engine.Quote(QuoteInput{Policy: noCurrency, Range: stay(3)})
	assert.ErrorIs(t, err, ErrCurrencyUnset)
}

func TestQuote_CustomCatalog(t *testing.T) {
	engine := NewEngine([]AddOn{{ID: "Bath", AmountCents: 800}})
	b, err := engine.Quote(QuoteInput{Policy: policy(), Range: stay(1), AddOns: []string{"bath", "grooming"}})
	require.NoError(t, err)
	require.Len(t, b.AddOns, 1)
	assert.Equal(t, int64(3800), b.Total.Amount)
}

func TestQuote_RoundsEachStoredAmount(t *testing.T) {
	p := policy()
	p.BaseDailyRate = money.Must(1999, "USD")

	b, err := NewEngine(nil).Quote(QuoteInput{Policy: p, PetSize: SizeMedium, Range: stay(7), AddOns: []string{"grooming"}})
	require.NoError(t, err)
	// 1999*7*1.2 = 16791.6, then 16792*0.9 = 15112.8
	assert.Equal(t, int64(16792), b.BasePrice.Amount)
	assert.Equal(t, int64(1679), b.DiscountAmount.Amount)
	assert.Equal(t, int64(2500), b.AddOnFee.Amount)
	assert.Equal(t, int64(17613), b.Total.Amount)
	assert.Equal(t, b.BasePrice.Amount-b.DiscountAmount.Amount+b.AddOnFee.Amount, b.Total.Amount)
}

func TestQuote_Deterministic(t *testing.T) {
	engine := NewEngine(nil)
	sizes := []PetSize{SizeSmall, SizeMedium, SizeLarge, SizeGiant, "unknown"}
	addOns := []string{"walking", "grooming", "medication"}

	for days := 1; days <= 40; days++ {
		for _, size := range sizes {
			input := QuoteInput{Policy: policy(), PetSize: size, Range: stay(days), AddOns: addOns}
			first, err := engine.Quote(input)
			require.NoError(t, err)
			second, err := engine.Quote(input)
			require.NoError(t, err)
			assert.Equal(t, first, second, "days=%d size=%s", days, size)
			assert.Equal(t, first.BasePrice.Amount-first.DiscountAmount.Amount+first.AddOnFee.Amount, first.Total.Amount)
		}
	}
}

func TestQuote_DiscountNeverDecreasesWithLength(t *testing.T) {
	engine := NewEngine(nil)
	previous := 0.0
	for days := 1; days <= 60; days++ {
		b, err := engine.Quote(QuoteInput{Policy: policy(), PetSize: SizeSmall, Range: stay(days)})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, b.DurationDiscount, previous, "days=%d", days)
		previous = b.DurationDiscount
	}
	assert.Equal(t, 0.2, previous)
}
