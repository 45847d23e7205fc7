package invoice

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

func validInvoice() *Invoice {
	return &Invoice{
		UserID:        "11111111-1111-1111-1111-111111111111",
		ClientName:    "Acme Corp",
		Amount:        120000,
		DueDate:       time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		Status:        StatusPending,
		Type:          TypeIncome,
		Items:         []LineItem{{Description: "Consulting", Quantity: 2, Price: 50000}},
		Subtotal:      100000,
		Tax:           20000,
		Total:         120000,
		Date:          time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		InvoiceNumber: "INV-001",
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validInvoice().Validate())
}

func TestValidate_ReportsEveryMissingField(t *testing.T) {
	err := (&Invoice{Amount: -1}).Validate()
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	for _, field := range []string{"clientName", "amount", "dueDate", "type", "items", "date", "invoiceNumber"} {
		require.Contains(t, verr.Fields, field)
	}
}

func TestValidate_TotalMustEqualSubtotalPlusTax(t *testing.T) {
	inv := validInvoice()
	inv.Total = inv.Subtotal + inv.Tax + 1

	err := inv.Validate()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "total")
}

func TestValidate_EnumMembership(t *testing.T) {
	inv := validInvoice()
	inv.Status = "archived"
	inv.Type = "transfer"
	inv.Category = "snacks"
	inv.PaymentMethod = "barter"

	err := inv.Validate()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Fields, "status")
	require.Contains(t, verr.Fields, "type")
	require.Contains(t, verr.Fields, "category")
	require.Contains(t, verr.Fields, "paymentMethod")
}

func TestApplyOverdueTransition(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name    string
		status  string
		dueDate time.Time
		want    string
	}{
		{"pending past due", StatusPending, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), StatusOverdue},
		{"pending due today stays pending", StatusPending, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), StatusPending},
		{"pending due tomorrow", StatusPending, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), StatusPending},
		{"paid never transitions", StatusPaid, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), StatusPaid},
		{"cancelled never transitions", StatusCancelled, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), StatusCancelled},
		{"overdue stays overdue", StatusOverdue, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), StatusOverdue},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			inv := validInvoice()
			inv.Status = c.status
			inv.DueDate = c.dueDate
			inv.ApplyOverdueTransition(now)
			require.Equal(t, c.want, inv.Status)
		})
	}
}

func TestPatch_DoesNotTouchSourceLink(t *testing.T) {
	inv := validInvoice()
	typ, id := TypeIncome, "some-income-id"
	inv.SourceEntityType = &typ
	inv.SourceEntityID = &id

	name := "New Client"
	amount := int64(5000)
	Patch{ClientName: &name, Amount: &amount}.Apply(inv)

	require.Equal(t, "New Client", inv.ClientName)
	require.Equal(t, int64(5000), inv.Amount)
	require.Equal(t, &typ, inv.SourceEntityType)
	require.Equal(t, &id, inv.SourceEntityID)
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(validInvoice())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Equal(t, "%PDF", string(data[:4]))
}
