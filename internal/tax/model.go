package tax

import (
	"time"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusOverdue    = "Overdue"
)

var statuses = map[string]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusOverdue:    true,
}

var filingStatuses = map[string]bool{
	"Single":               true,
	"Married":              true,
	"Head of Household":    true,
	"Qualifying Widow(er)": true,
}

var deductionCategories = map[string]bool{
	"Business Expenses": true,
	"Home Office":       true,
	"Equipment":         true,
	"Travel":            true,
	"Other":             true,
}

var paymentMethods = map[string]bool{
	"Bank Transfer": true,
	"Credit Card":   true,
	"Check":         true,
	"Other":         true,
}

type Deduction struct {
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	Amount      int64      `json:"amount"` // cents
	Date        *time.Time `json:"date,omitempty"`
}

type Payment struct {
	Amount        int64     `json:"amount"` // cents
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Reference     string    `json:"reference,omitempty"`
}

// RateAmount is an optional flat-rate tax breakdown (state, local,
// self-employment).
type RateAmount struct {
	Rate   float64 `json:"rate"`
	Amount int64   `json:"amount"` // cents
}

// Tax is one yearly tax record, unique per (owner, year). The four derived
// totals are rederived from their sub-entries on every save; caller-supplied
// values for them are never trusted.
type Tax struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Year            int         `json:"year"`
	TotalIncome     int64       `json:"total_income"` // cents
	Deductions      []Deduction `json:"deductions"`
	TotalDeductions int64       `json:"total_deductions"`
	TaxableIncome   int64       `json:"taxable_income"`
	TotalTax        int64       `json:"total_tax"`
	TaxPayments     []Payment   `json:"tax_payments"`
	TotalPaid       int64       `json:"total_paid"`
	Balance         int64       `json:"balance"`
	Status          string      `json:"status"`
	FilingStatus    string      `json:"filing_status"`
	State           string      `json:"state"`

	StateTax          *RateAmount `json:"state_tax,omitempty"`
	LocalTax          *RateAmount `json:"local_tax,omitempty"`
	SelfEmploymentTax *RateAmount `json:"self_employment_tax,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recompute rederives totalDeductions, taxableIncome, totalPaid and balance
// from the sub-entries. It runs before every persist regardless of which
// fields changed.
func (t *Tax) Recompute() {
	t.TotalDeductions = 0
	for _, d := range t.Deductions {
		t.TotalDeductions += d.Amount
	}
	t.TaxableIncome = t.TotalIncome - t.TotalDeductions

	t.TotalPaid = 0
	for _, p := range t.TaxPayments {
		t.TotalPaid += p.Amount
	}
	t.Balance = t.TotalTax - t.TotalPaid
}

func (t *Tax) Validate() error {
	v := domain.NewValidationError()
	if t.Year < 1900 || t.Year > 3000 {
		v.Add("year", "year out of range")
	}
	if t.TotalIncome < 0 {
		v.Add("totalIncome", "total income must be non-negative")
	}
	if t.Status != "" && !statuses[t.Status] {
		v.Add("status", "status must be one of Pending, In Progress, Completed, Overdue")
	}
	if t.FilingStatus != "" && !filingStatuses[t.FilingStatus] {
		v.Add("filingStatus", "unknown filing status")
	}
	for _, d := range t.Deductions {
		if !deductionCategories[d.Category] {
			v.Add("deductions", "unknown deduction category")
			break
		}
		if d.Amount < 0 {
			v.Add("deductions", "deduction amount must be non-negative")
			break
		}
	}
	for _, p := range t.TaxPayments {
		if p.Date.IsZero() {
			v.Add("taxPayments", "payment date is required")
			break
		}
		if p.PaymentMethod != "" && !paymentMethods[p.PaymentMethod] {
			v.Add("taxPayments", "unknown payment method")
			break
		}
	}
	return v.OrNil()
}

// ValidStatus reports whether s is an allowed tax record status.
func ValidStatus(s string) bool {
	return statuses[s]
}
