package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edutrack/edutrack-api/internal/models"
	appErrors "github.com/edutrack/edutrack-api/pkg/errors"
	"github.com/edutrack/edutrack-api/pkg/export"
)

type mockInvoiceRepo struct {
	byID   map[int64]*models.Invoice
	nextID int64
}

func newMockInvoiceRepo(invoices ...*models.Invoice) *mockInvoiceRepo {
	repo := &mockInvoiceRepo{byID: make(map[int64]*models.Invoice), nextID: 1}
	for _, inv := range invoices {
		repo.byID[inv.ID] = inv
		if inv.ID >= repo.nextID {
			repo.nextID = inv.ID + 1
		}
	}
	return repo
}

func (m *mockInvoiceRepo) List(ctx context.Context) ([]models.Invoice, error) {
	out := make([]models.Invoice, 0, len(m.byID))
	for _, inv := range m.byID {
		out = append(out, *inv)
	}
	return out, nil
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id int64) (*models.Invoice, error) {
	if inv, ok := m.byID[id]; ok {
		return inv, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	invoice.ID = m.nextID
	m.nextID++
	m.byID[invoice.ID] = invoice
	return nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	if _, ok := m.byID[invoice.ID]; !ok {
		return sql.ErrNoRows
	}
	m.byID[invoice.ID] = invoice
	return nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func newInvoiceService(repo *mockInvoiceRepo) *InvoiceService {
	return NewInvoiceService(repo, export.NewPDFExporter(), validator.New(), zap.NewNop())
}

func TestInvoiceCreateDefaultsStatus(t *testing.T) {
	svc := newInvoiceService(newMockInvoiceRepo())

	invoice, err := svc.Create(context.Background(), models.InvoiceRequest{
		UserID: 3, InvoiceNumber: "INV-001", Amount: 120.50,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultInvoiceStatus, invoice.Status)
	assert.NotZero(t, invoice.ID)
}

func TestInvoiceCreateMissingFields(t *testing.T) {
	svc := newInvoiceService(newMockInvoiceRepo())

	_, err := svc.Create(context.Background(), models.InvoiceRequest{InvoiceNumber: "INV-001"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestInvoiceUpdateKeepsOwner(t *testing.T) {
	svc := newInvoiceService(newMockInvoiceRepo(&models.Invoice{ID: 1, UserID: 3, InvoiceNumber: "INV-001", Amount: 100, Status: "Pending"}))

	updated, err := svc.Update(context.Background(), 1, models.InvoiceRequest{
		UserID: 99, InvoiceNumber: "INV-001-R", Amount: 150, Status: "Paid",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.UserID)
	assert.Equal(t, "INV-001-R", updated.InvoiceNumber)
	assert.Equal(t, "Paid", updated.Status)
}

func TestInvoiceDeleteTwiceNotFound(t *testing.T) {
	svc := newInvoiceService(newMockInvoiceRepo(&models.Invoice{ID: 1}))

	require.NoError(t, svc.Delete(context.Background(), 1))

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestInvoiceExportPDF(t *testing.T) {
	notes := "first term"
	svc := newInvoiceService(newMockInvoiceRepo(&models.Invoice{
		ID: 1, UserID: 3, InvoiceNumber: "INV-001", Amount: 120.50, Status: "Pending", Notes: &notes,
	}))

	payload, filename, err := svc.ExportPDF(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "invoice-INV-001.pdf", filename)
	require.True(t, len(payload) > 4)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestInvoiceExportPDFMissingNotFound(t *testing.T) {
	svc := newInvoiceService(newMockInvoiceRepo())

	_, _, err := svc.ExportPDF(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}
