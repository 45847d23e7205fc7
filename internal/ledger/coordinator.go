package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/audit"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/expense"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/income"
	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/invoice"
)

// Coordinator keeps the income, expense and invoice collections mutually
// consistent. Every public operation runs as one transaction: lookup,
// mutation and cascade share a single critical section, and any step failure
// rolls back everything written so far.
type Coordinator struct {
	pool     *pgxpool.Pool
	incomes  *income.Repository
	expenses *expense.Repository
	invoices *invoice.Repository
	now      func() time.Time
}

func NewCoordinator(pool *pgxpool.Pool, incomes *income.Repository, expenses *expense.Repository, invoices *invoice.Repository) *Coordinator {
	return &Coordinator{
		pool:     pool,
		incomes:  incomes,
		expenses: expenses,
		invoices: invoices,
		now:      time.Now,
	}
}

type IncomeResult struct {
	Income  *income.Income   `json:"income"`
	Invoice *invoice.Invoice `json:"invoice,omitempty"`
}

type ExpenseResult struct {
	Expense *expense.Expense `json:"expense"`
	Invoice *invoice.Invoice `json:"invoice,omitempty"`
}

type DeleteResult struct {
	Deleted         bool    `json:"deleted"`
	LinkedInvoiceID *string `json:"linked_invoice_id,omitempty"`
	LinkedEntryID   *string `json:"linked_entry_id,omitempty"`
}

func (c *Coordinator) inTx(ctx context.Context, op string, fn func(q domain.Querier) error) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		logrus.WithError(err).WithField("op", op).Warn("ledger transaction aborted")
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// reconcile is the single function both reconciliation paths go through. It
// upserts the invoice linked to an entry: rerunning it for the same entry
// updates the existing invoice, never duplicates it. With createIfMissing
// false it only updates and returns nil when no link exists yet.
func (c *Coordinator) reconcile(ctx context.Context, q domain.Querier, m mirror, createIfMissing bool) (*invoice.Invoice, error) {
	inv, err := c.invoices.GetBySource(ctx, q, m.UserID, m.EntityType, m.EntityID)
	if errors.Is(err, domain.ErrNotFound) {
		if !createIfMissing {
			return nil, nil
		}
		inv = newInvoiceFrom(m)
		inv.ApplyOverdueTransition(c.now())
		if err := c.invoices.Insert(ctx, q, inv); err != nil {
			return nil, fmt.Errorf("create linked invoice: %w", err)
		}
		return inv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("locate linked invoice: %w", err)
	}

	applyMirror(inv, m)
	inv.ApplyOverdueTransition(c.now())
	if err := c.invoices.Update(ctx, q, inv); err != nil {
		return nil, fmt.Errorf("update linked invoice: %w", err)
	}
	return inv, nil
}

// CreateIncome inserts the entry and its derived invoice atomically. If the
// invoice insert fails the income does not persist either.
func (c *Coordinator) CreateIncome(ctx context.Context, userID string, inc *income.Income) (*IncomeResult, error) {
	inc.UserID = userID
	if err := inc.Validate(); err != nil {
		return nil, err
	}

	res := &IncomeResult{}
	err := c.inTx(ctx, "income.create", func(q domain.Querier) error {
		if err := c.incomes.Insert(ctx, q, inc); err != nil {
			return fmt.Errorf("create income: %w", err)
		}
		inv, err := c.reconcile(ctx, q, mirrorForIncome(inc), true)
		if err != nil {
			return err
		}
		res.Income = inc
		res.Invoice = inv
		return c.audit(ctx, q, userID, "income.create", "income", inc.ID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// UpdateIncome applies the patch and refreshes the linked invoice's mirrored
// fields. When no link exists and the patch touched source or amount, a new
// linked invoice is created.
func (c *Coordinator) UpdateIncome(ctx context.Context, userID, id string, p income.Patch) (*IncomeResult, error) {
	res := &IncomeResult{}
	err := c.inTx(ctx, "income.update", func(q domain.Querier) error {
		inc, err := c.incomes.GetByID(ctx, q, userID, id)
		if err != nil {
			return err
		}
		p.Apply(inc)
		if err := inc.Validate(); err != nil {
			return err
		}
		if err := c.incomes.Update(ctx, q, inc); err != nil {
			return fmt.Errorf("update income: %w", err)
		}

		createIfMissing := p.Source != nil || p.Amount != nil
		inv, err := c.reconcile(ctx, q, mirrorForIncome(inc), createIfMissing)
		if err != nil {
			return err
		}
		res.Income = inc
		res.Invoice = inv
		return c.audit(ctx, q, userID, "income.update", "income", inc.ID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteIncome removes the entry and its linked invoice in one transaction.
// Lookup and delete share the transaction so a concurrent change cannot slip
// between them.
func (c *Coordinator) DeleteIncome(ctx context.Context, userID, id string) (*DeleteResult, error) {
	res := &DeleteResult{}
	err := c.inTx(ctx, "income.delete", func(q domain.Querier) error {
		inc, err := c.incomes.GetByID(ctx, q, userID, id)
		if err != nil {
			return err
		}
		if err := c.incomes.Delete(ctx, q, userID, inc.ID); err != nil {
			return fmt.Errorf("delete income: %w", err)
		}
		inv, err := c.invoices.GetBySource(ctx, q, userID, invoice.TypeIncome, inc.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("locate linked invoice: %w", err)
		}
		if inv != nil {
			if err := c.invoices.Delete(ctx, q, userID, inv.ID); err != nil {
				return fmt.Errorf("delete linked invoice: %w", err)
			}
			res.LinkedInvoiceID = &inv.ID
		}
		res.Deleted = true
		return c.audit(ctx, q, userID, "income.delete", "income", inc.ID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CreateExpense mirrors CreateIncome with payee standing in for source and a
// type=expense invoice carrying the entry's status.
func (c *Coordinator) CreateExpense(ctx context.Context, userID string, e *expense.Expense) (*ExpenseResult, error) {
	e.UserID = userID
	if e.Status == "" {
		e.Status = expense.StatusPending
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	res := &ExpenseResult{}
	err := c.inTx(ctx, "expense.create", func(q domain.Querier) error {
		if err := c.expenses.Insert(ctx, q, e); err != nil {
			return fmt.Errorf("create expense: %w", err)
		}
		inv, err := c.reconcile(ctx, q, mirrorForExpense(e), true)
		if err != nil {
			return err
		}
		res.Expense = e
		res.Invoice = inv
		return c.audit(ctx, q, userID, "expense.create", "expense", e.ID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Coordinator) UpdateExpense(ctx context.Context, userID, id string, p expense.Patch) (*ExpenseResult, error) {
	res := &ExpenseResult{}
	err := c.inTx(ctx, "expense.update", func(q domain.Querier) error {
		e, err := c.expenses.GetByID(ctx, q, userID, id)
		if err != nil {
			return err
		}
		p.Apply(e)
		if err := e.Validate(); err != nil {
			return err
		}
		if err := c.expenses.Update(ctx, q, e); err != nil {
			return fmt.Errorf("update expense: %w", err)
		}

		createIfMissing := p.Payee != nil || p.Amount != nil
		inv, err := c.reconcile(ctx, q, mirrorForExpense(e), createIfMissing)
		if err != nil {
			return err
		}
		res.Expense = e
		res.Invoice = inv
		return c.audit(ctx, q, userID, "expense.update", "expense", e.ID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Coordinator) DeleteExpense(ctx context.Context, userID, id string) (*DeleteResult, error) {
	res := &DeleteResult{}
	err := c.inTx(ctx, "expense.delete", func(q domain.Querier) error {
		e, err := c.expenses.GetByID(ctx, q, userID, id)
		if err != nil {
			return err
		}
		if err := c.expenses.Delete(ctx, q, userID, e.ID); err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		inv, err := c.invoices.GetBySource(ctx, q, userID, invoice.TypeExpense, e.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("locate linked invoice: %w", err)
		}
		if inv != nil {
			if err := c.invoices.Delete(ctx, q, userID, inv.ID); err != nil {
				return fmt.Errorf("delete linked invoice: %w", err)
			}
			res.LinkedInvoiceID = &inv.ID
		}
		res.Deleted = true
		return c.audit(ctx, q, userID, "expense.delete", "expense", e.ID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CreateInvoice is the invoice-initiated path. A paid income invoice
// synthesizes the income entry it mirrors, a paid expense invoice the
// expense entry, and the invoice is back-linked through the same canonical
// source fields the entry-initiated path writes.
func (c *Coordinator) CreateInvoice(ctx context.Context, userID string, inv *invoice.Invoice) (*invoice.Invoice, error) {
	inv.UserID = userID
	if inv.Status == "" {
		inv.Status = invoice.StatusPending
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	inv.ApplyOverdueTransition(c.now())

	err := c.inTx(ctx, "invoice.create", func(q domain.Querier) error {
		if err := c.invoices.Insert(ctx, q, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if inv.Status != invoice.StatusPaid {
			return c.audit(ctx, q, userID, "invoice.create", "invoice", inv.ID)
		}

		switch inv.Type {
		case invoice.TypeIncome:
			inc := &income.Income{
				UserID:      userID,
				Source:      inv.ClientName,
				Amount:      inv.Amount,
				Date:        inv.DueDate,
				Category:    "other",
				Description: inv.Description,
			}
			if err := c.incomes.Insert(ctx, q, inc); err != nil {
				return fmt.Errorf("create linked income: %w", err)
			}
			typ := invoice.TypeIncome
			inv.SourceEntityType, inv.SourceEntityID = &typ, &inc.ID
		case invoice.TypeExpense:
			e := &expense.Expense{
				UserID:        userID,
				Payee:         inv.ClientName,
				Amount:        inv.Amount,
				Date:          inv.DueDate,
				Status:        expense.StatusPaid,
				Category:      inv.Category,
				PaymentMethod: inv.PaymentMethod,
				Description:   inv.Description,
			}
			if err := c.expenses.Insert(ctx, q, e); err != nil {
				return fmt.Errorf("create linked expense: %w", err)
			}
			typ := invoice.TypeExpense
			inv.SourceEntityType, inv.SourceEntityID = &typ, &e.ID
		}
		if err := c.invoices.Update(ctx, q, inv); err != nil {
			return fmt.Errorf("back-link invoice: %w", err)
		}
		return c.audit(ctx, q, userID, "invoice.create", "invoice", inv.ID)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateInvoice applies an allow-listed patch. The overdue transition runs on
// every save, not just on explicit status changes.
func (c *Coordinator) UpdateInvoice(ctx context.Context, userID, id string, p invoice.Patch) (*invoice.Invoice, error) {
	var out *invoice.Invoice
	err := c.inTx(ctx, "invoice.update", func(q domain.Querier) error {
		inv, err := c.invoices.GetByID(ctx, q, userID, id)
		if err != nil {
			return err
		}
		p.Apply(inv)
		if err := inv.Validate(); err != nil {
			return err
		}
		inv.ApplyOverdueTransition(c.now())
		if err := c.invoices.Update(ctx, q, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		out = inv
		return c.audit(ctx, q, userID, "invoice.update", "invoice", inv.ID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteInvoice removes the invoice and cascades to the entry it links to,
// if any.
func (c *Coordinator) DeleteInvoice(ctx context.Context, userID, id string) (*DeleteResult, error) {
	res := &DeleteResult{}
	err := c.inTx(ctx, "invoice.delete", func(q domain.Querier) error {
		inv, err := c.invoices.GetByID(ctx, q, userID, id)
		if err != nil {
			return err
		}
		if err := c.invoices.Delete(ctx, q, userID, inv.ID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		if inv.SourceEntityType != nil && inv.SourceEntityID != nil {
			switch *inv.SourceEntityType {
			case invoice.TypeIncome:
				err = c.incomes.Delete(ctx, q, userID, *inv.SourceEntityID)
			case invoice.TypeExpense:
				err = c.expenses.Delete(ctx, q, userID, *inv.SourceEntityID)
			}
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("delete linked entry: %w", err)
			}
			if err == nil {
				res.LinkedEntryID = inv.SourceEntityID
			}
		}
		res.Deleted = true
		return c.audit(ctx, q, userID, "invoice.delete", "invoice", inv.ID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Coordinator) audit(ctx context.Context, q domain.Querier, userID, action, entityType, entityID string) error {
	err := audit.Write(ctx, q, audit.Entry{
		UserID:     &userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   &entityID,
	})
	if err != nil {
		return fmt.Errorf("audit %s: %w", action, err)
	}
	return nil
}
