package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/expense"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/income"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/invoice"
)

// mirror carries the fields an income or expense entry projects onto its
// linked invoice. Both reconciliation paths reduce to one of these, so the
// reconcile step has a single shape to work with.
type mirror struct {
	UserID        string
	EntityType    string
	EntityID      string
	ClientName    string
	Amount        int64
	DueDate       time.Time
	Status        string
	Category      string
	PaymentMethod string
	Description   *string
}

func mirrorForIncome(inc *income.Income) mirror {
	desc := inc.Description
	if desc == nil {
		d := fmt.Sprintf("Income entry from %s", inc.Source)
		desc = &d
	}
	return mirror{
		UserID:      inc.UserID,
		EntityType:  invoice.TypeIncome,
		EntityID:    inc.ID,
		ClientName:  inc.Source,
		Amount:      inc.Amount,
		DueDate:     inc.Date,
		Status:      invoice.StatusPaid,
		Description: desc,
	}
}

func mirrorForExpense(e *expense.Expense) mirror {
	return mirror{
		UserID:        e.UserID,
		EntityType:    invoice.TypeExpense,
		EntityID:      e.ID,
		ClientName:    e.Payee,
		Amount:        e.Amount,
		DueDate:       e.Date,
		Status:        e.Status,
		Category:      e.Category,
		PaymentMethod: e.PaymentMethod,
		Description:   e.Description,
	}
}

// newInvoiceFrom builds a fresh derived invoice for an entry. Derived
// invoices get a generated number and a single line item so they satisfy the
// same field constraints as client-created ones, with total = subtotal + tax.
func newInvoiceFrom(m mirror) *invoice.Invoice {
	desc := "Ledger entry"
	if m.Description != nil {
		desc = *m.Description
	}
	return &invoice.Invoice{
		UserID:        m.UserID,
		ClientName:    m.ClientName,
		Amount:        m.Amount,
		DueDate:       m.DueDate,
		Status:        m.Status,
		Description:   m.Description,
		Type:          m.EntityType,
		Category:      m.Category,
		PaymentMethod: m.PaymentMethod,
		Items: []invoice.LineItem{
			{Description: desc, Quantity: 1, Price: m.Amount},
		},
		Subtotal:         m.Amount,
		Tax:              0,
		Total:            m.Amount,
		Date:             m.DueDate,
		InvoiceNumber:    newInvoiceNumber(),
		SourceEntityType: &m.EntityType,
		SourceEntityID:   &m.EntityID,
	}
}

// applyMirror updates the mirrored fields of an existing linked invoice in
// place. Line items and totals are invoice-level document detail and are left
// alone; the entry only projects its header fields. Status is mirrored only
// from expenses, which carry one of their own. Income entries leave it alone,
// so a manually cancelled invoice stays cancelled across income updates.
func applyMirror(inv *invoice.Invoice, m mirror) {
	inv.ClientName = m.ClientName
	inv.Amount = m.Amount
	inv.DueDate = m.DueDate
	if m.EntityType == invoice.TypeExpense {
		inv.Status = m.Status
	}
	if m.Category != "" {
		inv.Category = m.Category
	}
	if m.PaymentMethod != "" {
		inv.PaymentMethod = m.PaymentMethod
	}
	if m.Description != nil {
		inv.Description = m.Description
	}
	inv.SourceEntityType = &m.EntityType
	inv.SourceEntityID = &m.EntityID
}

func newInvoiceNumber() string {
	return "INV-" + uuid.NewString()[:8]
}
