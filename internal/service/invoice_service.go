package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edutrack/edutrack-api/internal/models"
	appErrors "github.com/edutrack/edutrack-api/pkg/errors"
	"github.com/edutrack/edutrack-api/pkg/export"
)

// DefaultInvoiceStatus is assigned when a record omits one.
const DefaultInvoiceStatus = "Pending"

type invoiceRepository interface {
	List(ctx context.Context) ([]models.Invoice, error)
	FindByID(ctx context.Context, id int64) (*models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	Update(ctx context.Context, invoice *models.Invoice) error
	Delete(ctx context.Context, id int64) error
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// InvoiceService manages billing records.
type InvoiceService struct {
	repo      invoiceRepository
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInvoiceService constructs an InvoiceService.
func NewInvoiceService(repo invoiceRepository, pdf pdfRenderer, validate *validator.Validate, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InvoiceService{repo: repo, pdf: pdf, validator: validate, logger: logger}
}

// List returns every invoice, newest first.
func (s *InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invoices")
	}
	return invoices, nil
}

// Get returns one invoice by id.
func (s *InvoiceService) Get(ctx context.Context, id int64) (*models.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}
	return invoice, nil
}

// Create stores a new invoice.
func (s *InvoiceService) Create(ctx context.Context, req models.InvoiceRequest) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "user_id, invoice_number and amount are required")
	}

	invoice := &models.Invoice{
		UserID:        req.UserID,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		Status:        req.Status,
		DueDate:       req.DueDate,
		IssueDate:     req.IssueDate,
		Notes:         req.Notes,
	}
	if invoice.Status == "" {
		invoice.Status = DefaultInvoiceStatus
	}

	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create invoice")
	}
	return invoice, nil
}

// Update replaces the mutable fields of an existing invoice.
func (s *InvoiceService) Update(ctx context.Context, id int64, req models.InvoiceRequest) (*models.Invoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "user_id, invoice_number and amount are required")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice")
	}

	invoice := &models.Invoice{
		ID:            existing.ID,
		UserID:        existing.UserID,
		InvoiceNumber: req.InvoiceNumber,
		Amount:        req.Amount,
		Status:        req.Status,
		DueDate:       req.DueDate,
		IssueDate:     req.IssueDate,
		Notes:         req.Notes,
		CreatedAt:     existing.CreatedAt,
	}
	if invoice.Status == "" {
		invoice.Status = existing.Status
	}

	if err := s.repo.Update(ctx, invoice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update invoice")
	}
	return invoice, nil
}

// Delete removes an invoice by id.
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete invoice")
	}
	return nil
}

// ExportPDF renders one invoice as a PDF document.
func (s *InvoiceService) ExportPDF(ctx context.Context, id int64) ([]byte, string, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Invoice Number", invoice.InvoiceNumber},
			{"User ID", strconv.FormatInt(invoice.UserID, 10)},
			{"Amount", fmt.Sprintf("%.2f", invoice.Amount)},
			{"Status", invoice.Status},
			{"Issue Date", derefOrEmpty(invoice.IssueDate)},
			{"Due Date", derefOrEmpty(invoice.DueDate)},
			{"Notes", derefOrEmpty(invoice.Notes)},
		},
	}

	payload, err := s.pdf.Render(dataset, fmt.Sprintf("Invoice %s", invoice.InvoiceNumber))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return payload, fmt.Sprintf("invoice-%s.pdf", invoice.InvoiceNumber), nil
}
