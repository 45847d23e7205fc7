package taxcalc

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeIncome is returned when a negative income is passed to Progressive.
	ErrNegativeIncome = errors.New("income must be non-negative")

	// ErrBadBrackets is returned when the bracket table is empty, does not start
	// at threshold zero, or is not sorted ascending by threshold.
	ErrBadBrackets = errors.New("invalid bracket table")
)

// Bracket is one marginal rate band: income above Threshold is taxed at Rate
// percent until the next bracket's threshold.
type Bracket struct {
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
}

// Result holds the outcome of a progressive computation. RateKnown is false
// when income is zero: the effective rate is undefined there, and callers must
// not read EffectiveRate in that case.
type Result struct {
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
	RateKnown     bool            `json:"rate_known"`
}

var oneHundred = decimal.NewFromInt(100)

// Progressive computes bracket-by-bracket marginal tax over income expressed
// in whole currency units. Brackets must be sorted ascending with the first
// threshold at zero. The effective rate is a percentage of income.
func Progressive(income decimal.Decimal, brackets []Bracket) (Result, error) {
	if income.IsNegative() {
		return Result{}, ErrNegativeIncome
	}
	if err := checkBrackets(brackets); err != nil {
		return Result{}, err
	}

	remaining := income
	total := decimal.Zero
	for i, b := range brackets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		slice := remaining
		if i+1 < len(brackets) {
			width := brackets[i+1].Threshold.Sub(b.Threshold)
			if width.LessThan(slice) {
				slice = width
			}
		}
		total = total.Add(slice.Mul(b.Rate).Div(oneHundred))
		remaining = remaining.Sub(slice)
	}

	res := Result{TaxAmount: total}
	if income.IsPositive() {
		res.EffectiveRate = total.Div(income).Mul(oneHundred)
		res.RateKnown = true
	}
	return res, nil
}

// Flat computes amount * ratePercent / 100 for non-income tax types
// (sales, property, self-employment, corporate).
func Flat(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePercent).Div(oneHundred)
}

func checkBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return ErrBadBrackets
	}
	if !brackets[0].Threshold.IsZero() {
		return ErrBadBrackets
	}
	for i := 1; i < len(brackets); i++ {
		if !brackets[i].Threshold.GreaterThan(brackets[i-1].Threshold) {
			return ErrBadBrackets
		}
	}
	return nil
}

// IncomeBrackets returns the detailed marginal table used for income tax
// estimation. Callers get a fresh slice each time; the table is configuration,
// not shared mutable state.
func IncomeBrackets() []Bracket {
	return []Bracket{
		{Threshold: dec(0), Rate: dec(10)},
		{Threshold: dec(10000), Rate: dec(12)},
		{Threshold: dec(40000), Rate: dec(22)},
		{Threshold: dec(85000), Rate: dec(24)},
		{Threshold: dec(165000), Rate: dec(32)},
		{Threshold: dec(210000), Rate: dec(35)},
		{Threshold: dec(510000), Rate: dec(37)},
	}
}

// FilingBrackets returns the simplified four-band table applied when a yearly
// tax record is filed. It is intentionally distinct from IncomeBrackets.
func FilingBrackets() []Bracket {
	return []Bracket{
		{Threshold: dec(0), Rate: dec(15)},
		{Threshold: dec(50000), Rate: dec(25)},
		{Threshold: dec(100000), Rate: dec(35)},
		{Threshold: dec(200000), Rate: dec(45)},
	}
}

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}
