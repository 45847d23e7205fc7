package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/expense"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/income"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/invoice"
)

func newTestCoordinator() *Coordinator {
	return NewCoordinator(testPool, income.NewRepository(), expense.NewRepository(), invoice.NewRepository())
}

func countRows(t *testing.T, table, userID string) int {
	t.Helper()
	var n int
	err := testPool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM `+table+` WHERE user_id = $1`, userID).Scan(&n)
	require.NoError(t, err)
	return n
}

func testIncome(source string, amount int64) *income.Income {
	return &income.Income{
		Source:   source,
		Amount:   amount,
		Date:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Category: "business",
	}
}

func TestIncomeLifecycle_SingleLinkedInvoice(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	coord := newTestCoordinator()

	res, err := coord.CreateIncome(ctx, user, testIncome("Globex", 125000))
	require.NoError(t, err)
	require.NotNil(t, res.Invoice)
	require.Equal(t, invoice.StatusPaid, res.Invoice.Status)
	require.NotNil(t, res.Invoice.SourceEntityID)
	require.Equal(t, res.Income.ID, *res.Invoice.SourceEntityID)
	require.Equal(t, 1, countRows(t, "invoices", user))

	// Repeated updates keep exactly one linked invoice.
	src := "Globex International"
	amt := int64(200000)
	for i := 0; i < 3; i++ {
		upd, err := coord.UpdateIncome(ctx, user, res.Income.ID, income.Patch{Source: &src, Amount: &amt})
		require.NoError(t, err)
		require.NotNil(t, upd.Invoice)
		require.Equal(t, res.Invoice.ID, upd.Invoice.ID)
		require.Equal(t, src, upd.Invoice.ClientName)
		require.Equal(t, amt, upd.Invoice.Amount)
		require.Equal(t, 1, countRows(t, "invoices", user))
	}

	del, err := coord.DeleteIncome(ctx, user, res.Income.ID)
	require.NoError(t, err)
	require.True(t, del.Deleted)
	require.NotNil(t, del.LinkedInvoiceID)
	require.Equal(t, res.Invoice.ID, *del.LinkedInvoiceID)
	require.Equal(t, 0, countRows(t, "invoices", user))
	require.Equal(t, 0, countRows(t, "incomes", user))
}

func TestUpdateIncome_OnlyRelevantPatchCreatesMissingInvoice(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	coord := newTestCoordinator()

	// Insert directly so no linked invoice exists.
	inc := testIncome("Acme", 50000)
	inc.UserID = user
	require.NoError(t, income.NewRepository().Insert(ctx, testPool, inc))

	cat := "freelance"
	upd, err := coord.UpdateIncome(ctx, user, inc.ID, income.Patch{Category: &cat})
	require.NoError(t, err)
	require.Nil(t, upd.Invoice)
	require.Equal(t, 0, countRows(t, "invoices", user))

	amt := int64(60000)
	upd, err = coord.UpdateIncome(ctx, user, inc.ID, income.Patch{Amount: &amt})
	require.NoError(t, err)
	require.NotNil(t, upd.Invoice)
	require.Equal(t, amt, upd.Invoice.Amount)
	require.Equal(t, 1, countRows(t, "invoices", user))
}

func TestCreateIncome_RollsBackWhenInvoiceWriteFails(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	coord := newTestCoordinator()

	_, err := testPool.Exec(ctx, `
		CREATE OR REPLACE FUNCTION reject_invoices() RETURNS trigger AS $$
		BEGIN
			RAISE EXCEPTION 'invoices blocked';
		END;
		$$ LANGUAGE plpgsql;
		CREATE TRIGGER block_invoices BEFORE INSERT ON invoices
		FOR EACH ROW EXECUTE FUNCTION reject_invoices();`)
	require.NoError(t, err)
	defer func() {
		_, err := testPool.Exec(ctx, `
			DROP TRIGGER block_invoices ON invoices;
			DROP FUNCTION reject_invoices();`)
		require.NoError(t, err)
	}()

	_, err = coord.CreateIncome(ctx, user, testIncome("Doomed", 10000))
	require.Error(t, err)

	// The income written before the invoice failure must not survive.
	require.Equal(t, 0, countRows(t, "incomes", user))
}

func TestExpenseLifecycle_InvoiceMirrorsEntryState(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	coord := newTestCoordinator()
	coord.now = func() time.Time {
		return time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	}

	e := &expense.Expense{
		Payee:         "Office Depot",
		Amount:        30000,
		Date:          time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Status:        expense.StatusPending,
		Category:      "supplies",
		PaymentMethod: "credit",
	}
	res, err := coord.CreateExpense(ctx, user, e)
	require.NoError(t, err)
	require.NotNil(t, res.Invoice)
	require.Equal(t, invoice.TypeExpense, res.Invoice.Type)
	require.Equal(t, invoice.StatusPending, res.Invoice.Status)
	require.Equal(t, "supplies", res.Invoice.Category)

	paid := expense.StatusPaid
	upd, err := coord.UpdateExpense(ctx, user, e.ID, expense.Patch{Status: &paid})
	require.NoError(t, err)
	require.Equal(t, res.Invoice.ID, upd.Invoice.ID)
	require.Equal(t, invoice.StatusPaid, upd.Invoice.Status)

	del, err := coord.DeleteExpense(ctx, user, e.ID)
	require.NoError(t, err)
	require.True(t, del.Deleted)
	require.Equal(t, 0, countRows(t, "invoices", user))
}

func testInvoice(status string) *invoice.Invoice {
	return &invoice.Invoice{
		ClientName: "Initech",
		Amount:     80000,
		DueDate:    time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Status:     status,
		Type:       invoice.TypeIncome,
		Items: []invoice.LineItem{
			{Description: "Consulting", Quantity: 1, Price: 80000},
		},
		Subtotal:      80000,
		Tax:           0,
		Total:         80000,
		Date:          time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		InvoiceNumber: "INV-" + uuid.NewString()[:8],
	}
}

func TestPaidInvoice_SynthesizesEntryAndDeleteCascades(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	coord := newTestCoordinator()

	inv, err := coord.CreateInvoice(ctx, user, testInvoice(invoice.StatusPaid))
	require.NoError(t, err)
	require.NotNil(t, inv.SourceEntityType)
	require.Equal(t, invoice.TypeIncome, *inv.SourceEntityType)
	require.Equal(t, 1, countRows(t, "incomes", user))

	inc, err := income.NewRepository().GetByID(ctx, testPool, user, *inv.SourceEntityID)
	require.NoError(t, err)
	require.Equal(t, "Initech", inc.Source)
	require.Equal(t, int64(80000), inc.Amount)

	del, err := coord.DeleteInvoice(ctx, user, inv.ID)
	require.NoError(t, err)
	require.True(t, del.Deleted)
	require.NotNil(t, del.LinkedEntryID)
	require.Equal(t, 0, countRows(t, "incomes", user))
}

func TestPendingInvoice_CreatesNoEntry(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	coord := newTestCoordinator()

	inv, err := coord.CreateInvoice(ctx, user, testInvoice(invoice.StatusPending))
	require.NoError(t, err)
	require.Nil(t, inv.SourceEntityID)
	require.Equal(t, 0, countRows(t, "incomes", user))
}

func TestCreateInvoice_OverdueTransitionApplied(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	coord := newTestCoordinator()
	coord.now = func() time.Time {
		return time.Date(2026, 12, 25, 9, 0, 0, 0, time.UTC)
	}

	inv, err := coord.CreateInvoice(ctx, user, testInvoice(invoice.StatusPending))
	require.NoError(t, err)
	require.Equal(t, invoice.StatusOverdue, inv.Status)
}

func TestInvoiceNumberConflict(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	other := createTestUser(t)
	coord := newTestCoordinator()

	first := testInvoice(invoice.StatusPending)
	_, err := coord.CreateInvoice(ctx, user, first)
	require.NoError(t, err)

	dup := testInvoice(invoice.StatusPending)
	dup.InvoiceNumber = first.InvoiceNumber
	_, err = coord.CreateInvoice(ctx, user, dup)
	require.ErrorIs(t, err, domain.ErrConflict)

	// Numbers are only unique per owner.
	sameNumber := testInvoice(invoice.StatusPending)
	sameNumber.InvoiceNumber = first.InvoiceNumber
	_, err = coord.CreateInvoice(ctx, other, sameNumber)
	require.NoError(t, err)
}

func TestOwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	owner := createTestUser(t)
	intruder := createTestUser(t)
	coord := newTestCoordinator()

	res, err := coord.CreateIncome(ctx, owner, testIncome("Private Ltd", 99000))
	require.NoError(t, err)

	_, err = income.NewRepository().GetByID(ctx, testPool, intruder, res.Income.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	src := "Hijacked"
	_, err = coord.UpdateIncome(ctx, intruder, res.Income.ID, income.Patch{Source: &src})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = coord.DeleteIncome(ctx, intruder, res.Income.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Nothing about the owner's data changed.
	inc, err := income.NewRepository().GetByID(ctx, testPool, owner, res.Income.ID)
	require.NoError(t, err)
	require.Equal(t, "Private Ltd", inc.Source)
	require.Equal(t, 1, countRows(t, "invoices", owner))
}
