package invoice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/p-v-srinag/Tax-Expense-Management-System/internal/domain"
)

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

const columns = `id, user_id, client_name, amount, due_date, status, description, type,
	category, payment_method, items, subtotal, tax, total, date, invoice_number,
	source_entity_type, source_entity_id, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, q domain.Querier, inv *Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	err = q.QueryRow(ctx,
		`INSERT INTO invoices (user_id, client_name, amount, due_date, status, description, type,
		     category, payment_method, items, subtotal, tax, total, date, invoice_number,
		     source_entity_type, source_entity_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING id, created_at, updated_at`,
		inv.UserID, inv.ClientName, inv.Amount, inv.DueDate, inv.Status, inv.Description, inv.Type,
		nullIfEmpty(inv.Category), nullIfEmpty(inv.PaymentMethod), items,
		inv.Subtotal, inv.Tax, inv.Total, inv.Date, inv.InvoiceNumber,
		inv.SourceEntityType, inv.SourceEntityID,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	return mapConflict(err, inv.InvoiceNumber)
}

func (r *Repository) GetByID(ctx context.Context, q domain.Querier, userID, id string) (*Invoice, error) {
	row := q.QueryRow(ctx, `SELECT `+columns+` FROM invoices WHERE id = $1 AND user_id = $2`, id, userID)
	return scanInvoice(row)
}

// GetBySource looks an invoice up by its canonical link to an income or
// expense entry.
func (r *Repository) GetBySource(ctx context.Context, q domain.Querier, userID, entityType, entityID string) (*Invoice, error) {
	row := q.QueryRow(ctx,
		`SELECT `+columns+` FROM invoices
		 WHERE user_id = $1 AND source_entity_type = $2 AND source_entity_id = $3`,
		userID, entityType, entityID)
	return scanInvoice(row)
}

func (r *Repository) ListByUser(ctx context.Context, q domain.Querier, userID string) ([]Invoice, error) {
	rows, err := q.Query(ctx,
		`SELECT `+columns+` FROM invoices WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, q domain.Querier, inv *Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	ct, err := q.Exec(ctx,
		`UPDATE invoices
		 SET client_name = $1, amount = $2, due_date = $3, status = $4, description = $5,
		     category = $6, payment_method = $7, items = $8::jsonb, subtotal = $9, tax = $10,
		     total = $11, date = $12, invoice_number = $13,
		     source_entity_type = $14, source_entity_id = $15, updated_at = NOW()
		 WHERE id = $16 AND user_id = $17`,
		inv.ClientName, inv.Amount, inv.DueDate, inv.Status, inv.Description,
		nullIfEmpty(inv.Category), nullIfEmpty(inv.PaymentMethod), items,
		inv.Subtotal, inv.Tax, inv.Total, inv.Date, inv.InvoiceNumber,
		inv.SourceEntityType, inv.SourceEntityID, inv.ID, inv.UserID,
	)
	if err != nil {
		return mapConflict(err, inv.InvoiceNumber)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, q domain.Querier, userID, id string) error {
	ct, err := q.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// BackfillSourceLinks is a one-time migration helper for rows created before
// the canonical link existed. It matches unlinked invoices to entries by
// (owner, name, amount) and links only one-to-one matches: when several
// entries fit one invoice, or several invoices fit one entry, those rows stay
// unlinked for manual review. Entries already linked to an invoice are never
// candidates. Not part of steady-state reconciliation.
func (r *Repository) BackfillSourceLinks(ctx context.Context, q domain.Querier) (int64, error) {
	var total int64
	for _, c := range []struct {
		entityType string
		table      string
		nameCol    string
	}{
		{"income", "incomes", "source"},
		{"expense", "expenses", "payee"},
	} {
		ct, err := q.Exec(ctx, fmt.Sprintf(`
			WITH candidates AS (
			    SELECT inv.id AS invoice_id, e.id AS entry_id
			    FROM invoices inv
			    JOIN %[1]s e ON e.user_id = inv.user_id
			               AND e.%[2]s = inv.client_name
			               AND e.amount = inv.amount
			    WHERE inv.source_entity_id IS NULL
			      AND inv.type = '%[3]s'
			      AND NOT EXISTS (
			          SELECT 1 FROM invoices l
			          WHERE l.user_id = inv.user_id
			            AND l.source_entity_type = '%[3]s'
			            AND l.source_entity_id = e.id)
			), pairs AS (
			    SELECT invoice_id, entry_id FROM candidates
			    WHERE invoice_id IN (SELECT invoice_id FROM candidates GROUP BY invoice_id HAVING COUNT(*) = 1)
			      AND entry_id IN (SELECT entry_id FROM candidates GROUP BY entry_id HAVING COUNT(*) = 1)
			)
			UPDATE invoices inv
			SET source_entity_type = '%[3]s', source_entity_id = p.entry_id, updated_at = NOW()
			FROM pairs p
			WHERE inv.id = p.invoice_id`,
			c.table, c.nameCol, c.entityType))
		if err != nil {
			return total, err
		}
		total += ct.RowsAffected()
	}
	return total, nil
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var items []byte
	var category, paymentMethod *string
	err := row.Scan(&inv.ID, &inv.UserID, &inv.ClientName, &inv.Amount, &inv.DueDate,
		&inv.Status, &inv.Description, &inv.Type, &category, &paymentMethod,
		&items, &inv.Subtotal, &inv.Tax, &inv.Total, &inv.Date, &inv.InvoiceNumber,
		&inv.SourceEntityType, &inv.SourceEntityID, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if category != nil {
		inv.Category = *category
	}
	if paymentMethod != nil {
		inv.PaymentMethod = *paymentMethod
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items: %w", err)
		}
	}
	return &inv, nil
}

func mapConflict(err error, invoiceNumber string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("invoice number %q already exists: %w", invoiceNumber, domain.ErrConflict)
	}
	return err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
