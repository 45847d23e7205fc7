package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/expense"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/income"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/invoice"
)

func TestNewInvoiceFromIncome(t *testing.T) {
	inc := &income.Income{
		ID:       "inc-1",
		UserID:   "user-1",
		Source:   "Acme Corp",
		Amount:   250000,
		Date:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Category: "freelance",
	}

	inv := newInvoiceFrom(mirrorForIncome(inc))

	require.Equal(t, "user-1", inv.UserID)
	require.Equal(t, "Acme Corp", inv.ClientName)
	require.Equal(t, int64(250000), inv.Amount)
	require.Equal(t, inc.Date, inv.DueDate)
	require.Equal(t, invoice.StatusPaid, inv.Status)
	require.Equal(t, invoice.TypeIncome, inv.Type)
	require.NotNil(t, inv.Description)
	require.Equal(t, "Income entry from Acme Corp", *inv.Description)
	require.NotEmpty(t, inv.InvoiceNumber)

	require.Equal(t, invoice.TypeIncome, *inv.SourceEntityType)
	require.Equal(t, "inc-1", *inv.SourceEntityID)

	// Derived invoices must satisfy the same constraints as client-created
	// ones, including total = subtotal + tax.
	require.NoError(t, inv.Validate())
	require.Equal(t, inv.Subtotal+inv.Tax, inv.Total)
}

func TestNewInvoiceFromExpense(t *testing.T) {
	desc := "office chairs"
	e := &expense.Expense{
		ID:            "exp-1",
		UserID:        "user-1",
		Payee:         "Office Depot",
		Amount:        40000,
		Date:          time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		Status:        expense.StatusPending,
		Category:      "supplies",
		PaymentMethod: "credit",
		Description:   &desc,
	}

	inv := newInvoiceFrom(mirrorForExpense(e))

	require.Equal(t, invoice.TypeExpense, inv.Type)
	require.Equal(t, "Office Depot", inv.ClientName)
	require.Equal(t, invoice.StatusPending, inv.Status)
	require.Equal(t, "supplies", inv.Category)
	require.Equal(t, "credit", inv.PaymentMethod)
	require.Equal(t, "exp-1", *inv.SourceEntityID)
	require.NoError(t, inv.Validate())
}

func TestApplyMirror_UpdatesHeaderLeavesItems(t *testing.T) {
	inc := &income.Income{
		ID:     "inc-2",
		UserID: "user-1",
		Source: "Initial Client",
		Amount: 100000,
		Date:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	inv := newInvoiceFrom(mirrorForIncome(inc))
	originalItems := inv.Items
	originalNumber := inv.InvoiceNumber

	inc.Source = "Renamed Client"
	inc.Amount = 150000
	applyMirror(inv, mirrorForIncome(inc))

	require.Equal(t, "Renamed Client", inv.ClientName)
	require.Equal(t, int64(150000), inv.Amount)
	require.Equal(t, originalItems, inv.Items)
	require.Equal(t, originalNumber, inv.InvoiceNumber)
	require.Equal(t, "inc-2", *inv.SourceEntityID)
}

func TestApplyMirror_IncomeKeepsInvoiceStatus(t *testing.T) {
	inc := &income.Income{
		ID:     "inc-4",
		UserID: "user-1",
		Source: "Client",
		Amount: 75000,
		Date:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	inv := newInvoiceFrom(mirrorForIncome(inc))
	inv.Status = invoice.StatusCancelled

	inc.Source = "Renamed Client"
	applyMirror(inv, mirrorForIncome(inc))

	// A manually cancelled invoice must survive income updates.
	require.Equal(t, invoice.StatusCancelled, inv.Status)
	require.Equal(t, "Renamed Client", inv.ClientName)
}

func TestApplyMirror_ExpenseStatusTracksEntry(t *testing.T) {
	e := &expense.Expense{
		ID:            "exp-2",
		UserID:        "user-1",
		Payee:         "Vendor",
		Amount:        20000,
		Date:          time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:        expense.StatusPending,
		Category:      "supplies",
		PaymentMethod: "cash",
	}
	inv := newInvoiceFrom(mirrorForExpense(e))

	e.Status = expense.StatusPaid
	applyMirror(inv, mirrorForExpense(e))

	require.Equal(t, invoice.StatusPaid, inv.Status)
}

func TestApplyMirror_Idempotent(t *testing.T) {
	inc := &income.Income{
		ID:     "inc-3",
		UserID: "user-1",
		Source: "Client",
		Amount: 5000,
		Date:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	inv := newInvoiceFrom(mirrorForIncome(inc))

	applyMirror(inv, mirrorForIncome(inc))
	first := *inv
	applyMirror(inv, mirrorForIncome(inc))

	require.Equal(t, first.ClientName, inv.ClientName)
	require.Equal(t, first.Amount, inv.Amount)
	require.Equal(t, first.Status, inv.Status)
	require.Equal(t, first.SourceEntityID, inv.SourceEntityID)
}

func TestNewInvoiceNumberShape(t *testing.T) {
	a := newInvoiceNumber()
	b := newInvoiceNumber()
	require.Len(t, a, 12)
	require.True(t, a[:4] == "INV-")
	require.NotEqual(t, a, b)
}
