package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{"250.50", 25050},
		{"1000", 100000},
		{"0.01", 1},
		{"0", 0},
		{"-3.25", -325},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "abc", "1,000", "0.001", "10.999"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrMalformedAmount, in)
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "250.50", Amount(25050).String())
	assert.Equal(t, "1000.00", Amount(100000).String())
	assert.Equal(t, "0.01", Amount(1).String())
}

func TestDecimalRoundTrip(t *testing.T) {
	d := decimal.RequireFromString("1150.50")
	a, err := FromDecimal(d)
	require.NoError(t, err)
	assert.Equal(t, Amount(115050), a)
	assert.True(t, d.Equal(a.Decimal()))
}

func TestIsPositive(t *testing.T) {
	assert.True(t, Amount(1).IsPositive())
	assert.False(t, Amount(0).IsPositive())
	assert.False(t, Amount(-1).IsPositive())
}
