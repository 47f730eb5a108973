package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(5000), CurrencyNGN)

	require.NoError(t, err)
	assert.Equal(t, CurrencyNGN, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(5000)))
}

func TestNewMoney_InvalidCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(100), Currency("BTC"))

	assert.Error(t, err)
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("2500.50", CurrencyNGN)

	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.RequireFromString("2500.50")))
}

func TestNewMoneyFromString_Invalid(t *testing.T) {
	_, err := NewMoneyFromString("abc", CurrencyNGN)

	assert.Error(t, err)
}

func TestMoney_AddSubtract(t *testing.T) {
	a := NewMoneyNGNFromFloat(5000)
	b := NewMoneyNGNFromFloat(1500)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(6500)))

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(3500)))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	ngn := NewMoneyNGNFromFloat(100)
	usd, err := NewMoney(decimal.NewFromInt(100), CurrencyUSD)
	require.NoError(t, err)

	_, err = ngn.Add(usd)
	assert.Error(t, err)

	_, err = ngn.Subtract(usd)
	assert.Error(t, err)

	_, err = ngn.LessThan(usd)
	assert.Error(t, err)
}

func TestMoney_ClampZero(t *testing.T) {
	a := NewMoneyNGNFromFloat(1000)
	b := NewMoneyNGNFromFloat(2500)

	// Over-payment: the remainder clamps at zero instead of going negative.
	diff := a.MustSubtract(b)
	assert.True(t, diff.IsNegative())

	clamped := diff.ClampZero()
	assert.True(t, clamped.IsZero())

	positive := NewMoneyNGNFromFloat(300)
	assert.True(t, positive.ClampZero().Equals(positive))
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyNGNFromFloat(100)
	big := NewMoneyNGNFromFloat(200)

	lt, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, small.Equals(NewMoneyNGNFromFloat(100)))
	assert.False(t, small.Equals(big))
}

func TestMoney_ZeroValues(t *testing.T) {
	z := ZeroNGN()

	assert.True(t, z.IsZero())
	assert.False(t, z.IsPositive())
	assert.False(t, z.IsNegative())
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyNGNFromFloat(5000)

	assert.Equal(t, "NGN 5000.00", m.String())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyNGNFromFloat(1250.75)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, m.Equals(decoded))
}
