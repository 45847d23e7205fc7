package income

import (
	"time"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

var categories = map[string]bool{
	"salary":     true,
	"business":   true,
	"freelance":  true,
	"investment": true,
	"other":      true,
}

type Income struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Source      string    `json:"source"`
	Amount      int64     `json:"amount"` // cents
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Patch lists exactly the fields a client may change. Anything outside this
// set is not externally mutable.
type Patch struct {
	Source      *string    `json:"source"`
	Amount      *int64     `json:"amount"`
	Date        *time.Time `json:"date"`
	Category    *string    `json:"category"`
	Description *string    `json:"description"`
}

func (p Patch) Apply(inc *Income) {
	if p.Source != nil {
		inc.Source = *p.Source
	}
	if p.Amount != nil {
		inc.Amount = *p.Amount
	}
	if p.Date != nil {
		inc.Date = *p.Date
	}
	if p.Category != nil {
		inc.Category = *p.Category
	}
	if p.Description != nil {
		inc.Description = p.Description
	}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Source == nil && p.Amount == nil && p.Date == nil &&
		p.Category == nil && p.Description == nil
}

func (inc *Income) Validate() error {
	v := domain.NewValidationError()
	if inc.Source == "" {
		v.Add("source", "source is required")
	}
	if inc.Amount < 0 {
		v.Add("amount", "amount must be non-negative")
	}
	if inc.Date.IsZero() {
		v.Add("date", "date is required")
	}
	if inc.Category != "" && !categories[inc.Category] {
		v.Add("category", "unknown category")
	}
	return v.OrNil()
}
