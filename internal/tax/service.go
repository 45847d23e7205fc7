package tax

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/income"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/money"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/taxcalc"
)

// Service owns the yearly tax lifecycle: computing liability from recorded
// income and patching record status. The bracket table is injected so the
// calculator stays free of hidden globals.
type Service struct {
	db       domain.Querier
	incomes  *income.Repository
	taxes    *Repository
	brackets []taxcalc.Bracket
}

func NewService(db domain.Querier, incomes *income.Repository, taxes *Repository, brackets []taxcalc.Bracket) *Service {
	return &Service{db: db, incomes: incomes, taxes: taxes, brackets: brackets}
}

// CalculateTax sums the owner's income for the calendar year, applies the
// filing bracket table and upserts the (owner, year) record. An existing
// record keeps its deductions and payments; totalIncome, totalTax and status
// are overwritten and status resets to Pending.
func (s *Service) CalculateTax(ctx context.Context, userID string, year int) (*Tax, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	totalIncome, err := s.incomes.SumForPeriod(ctx, s.db, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum income for %d: %w", year, err)
	}

	res, err := taxcalc.Progressive(money.CentsToDecimal(totalIncome), s.brackets)
	if err != nil {
		return nil, fmt.Errorf("compute tax for %d: %w", year, err)
	}

	t, err := s.taxes.GetByYear(ctx, s.db, userID, year)
	if errors.Is(err, domain.ErrNotFound) {
		t = &Tax{
			UserID:       userID,
			Year:         year,
			FilingStatus: "Single",
			State:        "NA",
		}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	t.TotalIncome = totalIncome
	t.TotalTax = money.DecimalToCents(res.TaxAmount)
	t.Status = StatusPending

	if err := s.taxes.Save(ctx, s.db, t); err != nil {
		return nil, fmt.Errorf("save tax record for %d: %w", year, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":      userID,
		"year":         year,
		"total_income": totalIncome,
		"total_tax":    t.TotalTax,
	}).Info("tax liability calculated")

	return t, nil
}

func (s *Service) GetHistory(ctx context.Context, userID string) ([]Tax, error) {
	return s.taxes.ListByUser(ctx, s.db, userID)
}

func (s *Service) GetByYear(ctx context.Context, userID string, year int) (*Tax, error) {
	return s.taxes.GetByYear(ctx, s.db, userID, year)
}

// UpdateStatus patches only the status of an existing record.
func (s *Service) UpdateStatus(ctx context.Context, userID, id, status string) (*Tax, error) {
	if !ValidStatus(status) {
		v := domain.NewValidationError()
		v.Add("status", "status must be one of Pending, In Progress, Completed, Overdue")
		return nil, v
	}
	t, err := s.taxes.GetByID(ctx, s.db, userID, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	if err := s.taxes.Save(ctx, s.db, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddDeduction appends a deduction sub-entry; derived totals are rederived on
// save.
func (s *Service) AddDeduction(ctx context.Context, userID, id string, d Deduction) (*Tax, error) {
	t, err := s.taxes.GetByID(ctx, s.db, userID, id)
	if err != nil {
		return nil, err
	}
	t.Deductions = append(t.Deductions, d)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.taxes.Save(ctx, s.db, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddPayment appends a tax payment sub-entry; derived totals are rederived on
// save.
func (s *Service) AddPayment(ctx context.Context, userID, id string, p Payment) (*Tax, error) {
	t, err := s.taxes.GetByID(ctx, s.db, userID, id)
	if err != nil {
		return nil, err
	}
	t.TaxPayments = append(t.TaxPayments, p)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := s.taxes.Save(ctx, s.db, t); err != nil {
		return nil, err
	}
	return t, nil
}
