package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidatesCurrency(t *testing.T) {
	m, err := New(1050, "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", m.Currency)

	_, err = New(10, "US")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestAdd_RejectsMismatchedCurrency(t *testing.T) {
	sum, err := Must(1000, "USD").Add(Must(250, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(1250), sum.Amount)

	_, err = Must(1000, "USD").Add(Must(250, "EUR"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestScale_RoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, int64(1575), Must(1050, "USD").Scale(1.5).Amount)
	assert.Equal(t, int64(1577), Must(1051, "USD").Scale(1.5).Amount)
	assert.Equal(t, int64(1576), Must(1051, "USD").Scale(1.4995).Amount)
	assert.Equal(t, int64(3), Must(5, "USD").Scale(0.5).Amount)
	assert.Equal(t, int64(-3), Must(-5, "USD").Scale(0.5).Amount)
}

func TestFromMajor(t *testing.T) {
	m, err := FromMajor(283.5, "USD")
	require.NoError(t, err)
	assert.Equal(t, int64(28350), m.Amount)
	assert.Equal(t, "283.50 USD", m.String())
}
