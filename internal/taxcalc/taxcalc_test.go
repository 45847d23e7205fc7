package taxcalc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProgressive_DetailedTableAt50000(t *testing.T) {
	// 10,000*0.10 + 30,000*0.12 + 10,000*0.22 = 6,800
	res, err := Progressive(dec(50000), IncomeBrackets())
	require.NoError(t, err)
	require.True(t, dec(6800).Equal(res.TaxAmount), "got %s", res.TaxAmount)
	require.True(t, res.RateKnown)
	require.True(t, decimal.NewFromFloat(13.6).Equal(res.EffectiveRate), "got %s", res.EffectiveRate)
}

func TestProgressive_FilingBandsAt75000(t *testing.T) {
	// 50,000*0.15 + 25,000*0.25 = 13,750
	res, err := Progressive(dec(75000), FilingBrackets())
	require.NoError(t, err)
	require.True(t, dec(13750).Equal(res.TaxAmount), "got %s", res.TaxAmount)
}

func TestProgressive_FilingBandsMatchPiecewiseFormula(t *testing.T) {
	// The band table must reproduce the original piecewise formula at the
	// knee points and beyond the last band.
	cases := []struct {
		income int64
		tax    string
	}{
		{0, "0"},
		{50000, "7500"},
		{100000, "20000"},
		{200000, "55000"},
		{250000, "77500"},
	}
	for _, c := range cases {
		res, err := Progressive(dec(c.income), FilingBrackets())
		require.NoError(t, err)
		require.True(t, decimal.RequireFromString(c.tax).Equal(res.TaxAmount),
			"income %d: got %s want %s", c.income, res.TaxAmount, c.tax)
	}
}

func TestProgressive_MonotonicInIncome(t *testing.T) {
	for _, brackets := range [][]Bracket{IncomeBrackets(), FilingBrackets()} {
		prev := decimal.Zero
		for income := int64(0); income <= 600000; income += 2500 {
			res, err := Progressive(dec(income), brackets)
			require.NoError(t, err)
			require.True(t, res.TaxAmount.GreaterThanOrEqual(prev),
				"tax decreased at income %d: %s < %s", income, res.TaxAmount, prev)
			prev = res.TaxAmount
		}
	}
}

func TestProgressive_ZeroIncomeHasNoEffectiveRate(t *testing.T) {
	res, err := Progressive(decimal.Zero, IncomeBrackets())
	require.NoError(t, err)
	require.True(t, res.TaxAmount.IsZero())
	require.False(t, res.RateKnown)
}

func TestProgressive_NegativeIncome(t *testing.T) {
	_, err := Progressive(dec(-1), IncomeBrackets())
	require.ErrorIs(t, err, ErrNegativeIncome)
}

func TestProgressive_RejectsBadBrackets(t *testing.T) {
	_, err := Progressive(dec(100), nil)
	require.ErrorIs(t, err, ErrBadBrackets)

	_, err = Progressive(dec(100), []Bracket{{Threshold: dec(10), Rate: dec(5)}})
	require.ErrorIs(t, err, ErrBadBrackets)

	unsorted := []Bracket{
		{Threshold: dec(0), Rate: dec(10)},
		{Threshold: dec(5000), Rate: dec(12)},
		{Threshold: dec(5000), Rate: dec(22)},
	}
	_, err = Progressive(dec(100), unsorted)
	require.ErrorIs(t, err, ErrBadBrackets)
}

func TestFlat(t *testing.T) {
	got := Flat(dec(2000), decimal.NewFromFloat(15.3))
	require.True(t, dec(306).Equal(got), "got %s", got)

	require.True(t, Flat(decimal.Zero, dec(21)).IsZero())
}
