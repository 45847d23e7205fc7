package tax

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

const columns = `id, user_id, year, total_income, deductions, total_deductions, taxable_income,
	total_tax, tax_payments, total_paid, balance, status, filing_status, state,
	state_tax, local_tax, self_employment_tax, created_at, updated_at`

// Save upserts the record keyed by (owner, year). Derived totals are
// recomputed here so no persist path can skip them.
func (r *Repository) Save(ctx context.Context, q domain.Querier, t *Tax) error {
	t.Recompute()

	deductions, err := json.Marshal(orEmpty(t.Deductions))
	if err != nil {
		return fmt.Errorf("marshal deductions: %w", err)
	}
	payments, err := json.Marshal(orEmptyPayments(t.TaxPayments))
	if err != nil {
		return fmt.Errorf("marshal tax payments: %w", err)
	}
	stateTax, err := marshalRate(t.StateTax)
	if err != nil {
		return err
	}
	localTax, err := marshalRate(t.LocalTax)
	if err != nil {
		return err
	}
	seTax, err := marshalRate(t.SelfEmploymentTax)
	if err != nil {
		return err
	}

	return q.QueryRow(ctx,
		`INSERT INTO taxes (user_id, year, total_income, deductions, total_deductions,
		     taxable_income, total_tax, tax_payments, total_paid, balance, status,
		     filing_status, state, state_tax, local_tax, self_employment_tax)
		 VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8::jsonb, $9, $10, $11, $12, $13,
		     $14::jsonb, $15::jsonb, $16::jsonb)
		 ON CONFLICT (user_id, year) DO UPDATE SET
		     total_income = EXCLUDED.total_income,
		     deductions = EXCLUDED.deductions,
		     total_deductions = EXCLUDED.total_deductions,
		     taxable_income = EXCLUDED.taxable_income,
		     total_tax = EXCLUDED.total_tax,
		     tax_payments = EXCLUDED.tax_payments,
		     total_paid = EXCLUDED.total_paid,
		     balance = EXCLUDED.balance,
		     status = EXCLUDED.status,
		     filing_status = EXCLUDED.filing_status,
		     state = EXCLUDED.state,
		     state_tax = EXCLUDED.state_tax,
		     local_tax = EXCLUDED.local_tax,
		     self_employment_tax = EXCLUDED.self_employment_tax,
		     updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		t.UserID, t.Year, t.TotalIncome, deductions, t.TotalDeductions,
		t.TaxableIncome, t.TotalTax, payments, t.TotalPaid, t.Balance, t.Status,
		t.FilingStatus, t.State, stateTax, localTax, seTax,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *Repository) GetByYear(ctx context.Context, q domain.Querier, userID string, year int) (*Tax, error) {
	row := q.QueryRow(ctx, `SELECT `+columns+` FROM taxes WHERE user_id = $1 AND year = $2`, userID, year)
	return scanTax(row)
}

func (r *Repository) GetByID(ctx context.Context, q domain.Querier, userID, id string) (*Tax, error) {
	row := q.QueryRow(ctx, `SELECT `+columns+` FROM taxes WHERE id = $1 AND user_id = $2`, id, userID)
	return scanTax(row)
}

func (r *Repository) ListByUser(ctx context.Context, q domain.Querier, userID string) ([]Tax, error) {
	rows, err := q.Query(ctx, `SELECT `+columns+` FROM taxes WHERE user_id = $1 ORDER BY year DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Tax, 0)
	for rows.Next() {
		t, err := scanTax(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func scanTax(row pgx.Row) (*Tax, error) {
	var t Tax
	var deductions, payments, stateTax, localTax, seTax []byte
	err := row.Scan(&t.ID, &t.UserID, &t.Year, &t.TotalIncome, &deductions, &t.TotalDeductions,
		&t.TaxableIncome, &t.TotalTax, &payments, &t.TotalPaid, &t.Balance, &t.Status,
		&t.FilingStatus, &t.State, &stateTax, &localTax, &seTax, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(deductions) > 0 {
		if err := json.Unmarshal(deductions, &t.Deductions); err != nil {
			return nil, fmt.Errorf("unmarshal deductions: %w", err)
		}
	}
	if len(payments) > 0 {
		if err := json.Unmarshal(payments, &t.TaxPayments); err != nil {
			return nil, fmt.Errorf("unmarshal tax payments: %w", err)
		}
	}
	if t.StateTax, err = unmarshalRate(stateTax); err != nil {
		return nil, err
	}
	if t.LocalTax, err = unmarshalRate(localTax); err != nil {
		return nil, err
	}
	if t.SelfEmploymentTax, err = unmarshalRate(seTax); err != nil {
		return nil, err
	}
	return &t, nil
}

func marshalRate(ra *RateAmount) ([]byte, error) {
	if ra == nil {
		return nil, nil
	}
	b, err := json.Marshal(ra)
	if err != nil {
		return nil, fmt.Errorf("marshal tax breakdown: %w", err)
	}
	return b, nil
}

func unmarshalRate(b []byte) (*RateAmount, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var ra RateAmount
	if err := json.Unmarshal(b, &ra); err != nil {
		return nil, fmt.Errorf("unmarshal tax breakdown: %w", err)
	}
	return &ra, nil
}

func orEmpty(ds []Deduction) []Deduction {
	if ds == nil {
		return []Deduction{}
	}
	return ds
}

func orEmptyPayments(ps []Payment) []Payment {
	if ps == nil {
		return []Payment{}
	}
	return ps
}
