package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMoney = errors.New("invalid money amount")
)

// DollarsToCents converts a dollar value (like 12.34) to cents as int64 safely.
// Use ONLY when you must parse user-entered decimal dollars.
// Prefer sending cents directly from clients.
func DollarsToCents(dollars float64) (int64, error) {
	if math.IsNaN(dollars) || math.IsInf(dollars, 0) {
		return 0, ErrInvalidMoney
	}
	if dollars < 0 {
		return 0, ErrInvalidMoney
	}
	// Prevent overflow: int64 max ~9e18 => dollars max ~9e16
	if dollars > 9e16 {
		return 0, fmt.Errorf("%w: too large", ErrInvalidMoney)
	}
	cents := int64(math.Round(dollars * 100.0))
	if cents < 0 {
		return 0, ErrInvalidMoney
	}
	return cents, nil
}

// CentsToDecimal converts stored cents into whole currency units for tax math.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

// DecimalToCents rounds a currency-unit decimal to the nearest cent.
func DecimalToCents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func CentsToString(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	units := cents / 100
	rem := cents % 100
	return fmt.Sprintf("%s%d.%02d", sign, units, rem)
}
