package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/edutrack-api/internal/models"
)

const invoiceColumns = "id, user_id, invoice_number, amount, status, due_date, issue_date, notes, created_at, updated_at"

// InvoiceRepository manages persistence for invoices.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository constructs an InvoiceRepository.
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// List returns all invoices, newest first.
func (r *InvoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices ORDER BY created_at DESC", invoiceColumns)
	var invoices []models.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// FindByID fetches an invoice by id.
func (r *InvoiceRepository) FindByID(ctx context.Context, id int64) (*models.Invoice, error) {
	query := fmt.Sprintf("SELECT %s FROM invoices WHERE id = $1 LIMIT 1", invoiceColumns)
	var invoice models.Invoice
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find invoice by id: %w", err)
	}
	return &invoice, nil
}

// Create inserts an invoice and fills in the generated id.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	const query = `INSERT INTO invoices (user_id, invoice_number, amount, status, due_date, issue_date, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := r.db.GetContext(ctx, &invoice.ID, query,
		invoice.UserID, invoice.InvoiceNumber, invoice.Amount, invoice.Status,
		invoice.DueDate, invoice.IssueDate, invoice.Notes, invoice.CreatedAt, invoice.UpdatedAt); err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}
	return nil
}

// Update modifies an existing invoice. Missing ids yield sql.ErrNoRows.
func (r *InvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	invoice.UpdatedAt = time.Now().UTC()
	const query = `UPDATE invoices SET invoice_number = $2, amount = $3, status = $4, due_date = $5, issue_date = $6, notes = $7, updated_at = $8 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, invoice.ID,
		invoice.InvoiceNumber, invoice.Amount, invoice.Status,
		invoice.DueDate, invoice.IssueDate, invoice.Notes, invoice.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return requireRow(res)
}

// Delete removes an invoice by id.
func (r *InvoiceRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM invoices WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return requireRow(res)
}
