package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/income"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/tax"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/taxcalc"
)

func newTestTaxService() *tax.Service {
	return tax.NewService(testPool, income.NewRepository(), tax.NewRepository(), taxcalc.FilingBrackets())
}

func TestTaxFlow_CalculateUpsertAndSubEntries(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	coord := newTestCoordinator()
	svc := newTestTaxService()

	// Two entries inside the year, one outside it.
	for _, e := range []struct {
		amount int64
		date   time.Time
	}{
		{5000000, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{2500000, time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC)},
		{9900000, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	} {
		inc := testIncome("Client", e.amount)
		inc.Date = e.date
		_, err := coord.CreateIncome(ctx, user, inc)
		require.NoError(t, err)
	}

	// $75,000 income: 15% of the first $50k plus 25% of the next $25k.
	rec, err := svc.CalculateTax(ctx, user, 2026)
	require.NoError(t, err)
	require.Equal(t, int64(7500000), rec.TotalIncome)
	require.Equal(t, int64(1375000), rec.TotalTax)
	require.Equal(t, tax.StatusPending, rec.Status)
	require.Equal(t, "Single", rec.FilingStatus)

	// Sub-entries rederive the totals on save.
	rec, err = svc.AddDeduction(ctx, user, rec.ID, tax.Deduction{
		Category: "Equipment",
		Amount:   100000,
	})
	require.NoError(t, err)
	require.Equal(t, int64(100000), rec.TotalDeductions)
	require.Equal(t, int64(7400000), rec.TaxableIncome)

	rec, err = svc.AddPayment(ctx, user, rec.ID, tax.Payment{
		Amount:        500000,
		Date:          time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC),
		PaymentMethod: "Bank Transfer",
	})
	require.NoError(t, err)
	require.Equal(t, int64(500000), rec.TotalPaid)
	require.Equal(t, rec.TotalTax-rec.TotalPaid, rec.Balance)

	// Recalculating upserts the same (owner, year) row and keeps sub-entries.
	again, err := svc.CalculateTax(ctx, user, 2026)
	require.NoError(t, err)
	require.Equal(t, rec.ID, again.ID)
	require.Len(t, again.Deductions, 1)
	require.Len(t, again.TaxPayments, 1)
	require.Equal(t, 1, countRows(t, "taxes", user))
}

func TestTaxFlow_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	svc := newTestTaxService()

	rec, err := svc.CalculateTax(ctx, user, 2024)
	require.NoError(t, err)
	require.Equal(t, int64(0), rec.TotalIncome)
	require.Equal(t, int64(0), rec.TotalTax)

	_, err = svc.UpdateStatus(ctx, user, rec.ID, "shredded")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	rec, err = svc.UpdateStatus(ctx, user, rec.ID, tax.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, tax.StatusCompleted, rec.Status)

	// History is newest year first.
	_, err = svc.CalculateTax(ctx, user, 2023)
	require.NoError(t, err)
	hist, err := svc.GetHistory(ctx, user)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, 2024, hist[0].Year)
	require.Equal(t, 2023, hist[1].Year)
}
