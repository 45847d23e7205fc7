package tax

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

func TestRecompute_DerivesAllFourTotals(t *testing.T) {
	rec := &Tax{
		TotalIncome: 7500000, // 75,000.00
		TotalTax:    1375000, // 13,750.00
		Deductions: []Deduction{
			{Category: "Home Office", Amount: 200000},
			{Category: "Equipment", Amount: 100000},
		},
		TaxPayments: []Payment{
			{Amount: 500000, Date: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)},
		},
		// Caller-supplied junk in derived fields must be overwritten.
		TotalDeductions: 99,
		TaxableIncome:   99,
		TotalPaid:       99,
		Balance:         99,
	}

	rec.Recompute()

	require.Equal(t, int64(300000), rec.TotalDeductions)
	require.Equal(t, int64(7200000), rec.TaxableIncome)
	require.Equal(t, int64(500000), rec.TotalPaid)
	require.Equal(t, int64(875000), rec.Balance)
}

func TestRecompute_Idempotent(t *testing.T) {
	rec := &Tax{
		TotalIncome: 1000000,
		TotalTax:    150000,
		Deductions:  []Deduction{{Category: "Travel", Amount: 50000}},
		TaxPayments: []Payment{{Amount: 25000, Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}},
	}

	rec.Recompute()
	first := *rec
	rec.Recompute()

	require.Equal(t, first.TotalDeductions, rec.TotalDeductions)
	require.Equal(t, first.TaxableIncome, rec.TaxableIncome)
	require.Equal(t, first.TotalPaid, rec.TotalPaid)
	require.Equal(t, first.Balance, rec.Balance)
}

func TestRecompute_NoSubEntries(t *testing.T) {
	rec := &Tax{TotalIncome: 500000, TotalTax: 75000}
	rec.Recompute()

	require.Equal(t, int64(0), rec.TotalDeductions)
	require.Equal(t, int64(500000), rec.TaxableIncome)
	require.Equal(t, int64(0), rec.TotalPaid)
	require.Equal(t, int64(75000), rec.Balance)
}

func TestValidate_Enums(t *testing.T) {
	rec := &Tax{
		Year:         2026,
		Status:       "Filed",
		FilingStatus: "Divorced",
		Deductions:   []Deduction{{Category: "Groceries", Amount: 100}},
	}

	err := rec.Validate()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "status")
	require.Contains(t, verr.Fields, "filingStatus")
	require.Contains(t, verr.Fields, "deductions")
}

func TestValidStatus(t *testing.T) {
	require.True(t, ValidStatus("Pending"))
	require.True(t, ValidStatus("In Progress"))
	require.False(t, ValidStatus("pending"))
	require.False(t, ValidStatus(""))
}
