package invoice

import (
	"time"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
	StatusOverdue   = "overdue"

	TypeIncome  = "income"
	TypeExpense = "expense"
)

var statuses = map[string]bool{
	StatusPending:   true,
	StatusPaid:      true,
	StatusCancelled: true,
	StatusOverdue:   true,
}

var types = map[string]bool{
	TypeIncome:  true,
	TypeExpense: true,
}

var categories = map[string]bool{
	"utilities":   true,
	"rent":        true,
	"salary":      true,
	"supplies":    true,
	"maintenance": true,
	"marketing":   true,
	"other":       true,
}

var paymentMethods = map[string]bool{
	"cash":   true,
	"bank":   true,
	"credit": true,
	"other":  true,
}

type LineItem struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	Price       int64  `json:"price"` // cents per unit
}

type Invoice struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	ClientName    string     `json:"client_name"`
	Amount        int64      `json:"amount"` // cents
	DueDate       time.Time  `json:"due_date"`
	Status        string     `json:"status"`
	Description   *string    `json:"description,omitempty"`
	Type          string     `json:"type"`
	Category      string     `json:"category,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Items         []LineItem `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	Tax           int64      `json:"tax"`
	Total         int64      `json:"total"`
	Date          time.Time  `json:"date"`
	InvoiceNumber string     `json:"invoice_number"`

	// Canonical back-reference to the income or expense entry this invoice
	// mirrors. Both reconciliation paths write it; heuristic matching is
	// reserved for the one-time backfill in cmd/migrate.
	SourceEntityType *string `json:"source_entity_type,omitempty"`
	SourceEntityID   *string `json:"source_entity_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch lists exactly the invoice fields a client may change. The source link
// is managed by the sync coordinator and is not externally mutable.
type Patch struct {
	ClientName    *string    `json:"client_name"`
	Amount        *int64     `json:"amount"`
	DueDate       *time.Time `json:"due_date"`
	Status        *string    `json:"status"`
	Description   *string    `json:"description"`
	Category      *string    `json:"category"`
	PaymentMethod *string    `json:"payment_method"`
	Items         []LineItem `json:"items"`
	Subtotal      *int64     `json:"subtotal"`
	Tax           *int64     `json:"tax"`
	Total         *int64     `json:"total"`
	Date          *time.Time `json:"date"`
	InvoiceNumber *string    `json:"invoice_number"`
}

func (p Patch) Apply(inv *Invoice) {
	if p.ClientName != nil {
		inv.ClientName = *p.ClientName
	}
	if p.Amount != nil {
		inv.Amount = *p.Amount
	}
	if p.DueDate != nil {
		inv.DueDate = *p.DueDate
	}
	if p.Status != nil {
		inv.Status = *p.Status
	}
	if p.Description != nil {
		inv.Description = p.Description
	}
	if p.Category != nil {
		inv.Category = *p.Category
	}
	if p.PaymentMethod != nil {
		inv.PaymentMethod = *p.PaymentMethod
	}
	if p.Items != nil {
		inv.Items = p.Items
	}
	if p.Subtotal != nil {
		inv.Subtotal = *p.Subtotal
	}
	if p.Tax != nil {
		inv.Tax = *p.Tax
	}
	if p.Total != nil {
		inv.Total = *p.Total
	}
	if p.Date != nil {
		inv.Date = *p.Date
	}
	if p.InvoiceNumber != nil {
		inv.InvoiceNumber = *p.InvoiceNumber
	}
}

// Validate reports every missing or ill-typed required field by name.
// total = subtotal + tax is enforced here on every path.
func (inv *Invoice) Validate() error {
	v := domain.NewValidationError()
	if inv.ClientName == "" {
		v.Add("clientName", "client name is required")
	}
	if inv.Amount < 0 {
		v.Add("amount", "amount must be a non-negative number")
	}
	if inv.DueDate.IsZero() {
		v.Add("dueDate", "due date is required")
	}
	if inv.Status != "" && !statuses[inv.Status] {
		v.Add("status", "status must be one of pending, paid, cancelled, overdue")
	}
	if inv.Type == "" {
		v.Add("type", "type is required")
	} else if !types[inv.Type] {
		v.Add("type", "type must be income or expense")
	}
	if inv.Category != "" && !categories[inv.Category] {
		v.Add("category", "unknown category")
	}
	if inv.PaymentMethod != "" && !paymentMethods[inv.PaymentMethod] {
		v.Add("paymentMethod", "unknown payment method")
	}
	if inv.Items == nil {
		v.Add("items", "items are required")
	}
	for _, it := range inv.Items {
		if it.Quantity <= 0 {
			v.Add("items", "item quantity must be positive")
			break
		}
		if it.Price < 0 {
			v.Add("items", "item price must be non-negative")
			break
		}
	}
	if inv.Subtotal < 0 {
		v.Add("subtotal", "subtotal must be non-negative")
	}
	if inv.Tax < 0 {
		v.Add("tax", "tax must be non-negative")
	}
	if inv.Total < 0 {
		v.Add("total", "total must be non-negative")
	} else if inv.Total != inv.Subtotal+inv.Tax {
		v.Add("total", "total must equal subtotal plus tax")
	}
	if inv.Date.IsZero() {
		v.Add("date", "date is required")
	}
	if inv.InvoiceNumber == "" {
		v.Add("invoiceNumber", "invoice number is required")
	}
	return v.OrNil()
}

// ApplyOverdueTransition flips a pending invoice to overdue once its due date
// has passed, at day granularity. It runs on every persist, and paid or
// cancelled invoices never transition.
func (inv *Invoice) ApplyOverdueTransition(now time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if inv.Status == StatusPending && inv.DueDate.Before(today) {
		inv.Status = StatusOverdue
	}
}
