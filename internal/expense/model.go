package expense

import (
	"time"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

var statuses = map[string]bool{
	StatusPending:   true,
	StatusPaid:      true,
	StatusCancelled: true,
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

type Expense struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Payee         string    `json:"payee"`
	Amount        int64     `json:"amount"` // cents
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	Category      string    `json:"category"`
	PaymentMethod string    `json:"payment_method"`
	Description   *string   `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Patch lists exactly the fields a client may change.
type Patch struct {
	Payee         *string    `json:"payee"`
	Amount        *int64     `json:"amount"`
	Date          *time.Time `json:"date"`
	Status        *string    `json:"status"`
	Category      *string    `json:"category"`
	PaymentMethod *string    `json:"payment_method"`
	Description   *string    `json:"description"`
}

func (p Patch) Apply(e *Expense) {
	if p.Payee != nil {
		e.Payee = *p.Payee
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.PaymentMethod != nil {
		e.PaymentMethod = *p.PaymentMethod
	}
	if p.Description != nil {
		e.Description = p.Description
	}
}

func (p Patch) Empty() bool {
	return p.Payee == nil && p.Amount == nil && p.Date == nil && p.Status == nil &&
		p.Category == nil && p.PaymentMethod == nil && p.Description == nil
}

func (e *Expense) Validate() error {
	v := domain.NewValidationError()
	if e.Payee == "" {
		v.Add("payee", "payee is required")
	}
	if e.Amount < 0 {
		v.Add("amount", "amount must be non-negative")
	}
	if e.Date.IsZero() {
		v.Add("date", "date is required")
	}
	if e.Status == "" || !statuses[e.Status] {
		v.Add("status", "status must be one of pending, paid, cancelled")
	}
	if e.Category != "" && !categories[e.Category] {
		v.Add("category", "unknown category")
	}
	if e.PaymentMethod != "" && !paymentMethods[e.PaymentMethod] {
		v.Add("payment_method", "unknown payment method")
	}
	return v.OrNil()
}
