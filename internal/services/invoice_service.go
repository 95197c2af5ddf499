package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "praxis/internal/errors"
	"praxis/internal/models"
	"praxis/internal/pagination"
)

// invoiceService handles invoice-related business logic.
type invoiceService struct {
	db             *gorm.DB
	clientService  ClientServicer
	projectService ProjectServicer
}

// NewInvoiceService creates a new InvoiceServicer.
func NewInvoiceService(db *gorm.DB, clientService ClientServicer, projectService ProjectServicer) InvoiceServicer {
	return &invoiceService{
		db:             db,
		clientService:  clientService,
		projectService: projectService,
	}
}

// CreateInvoice creates a new invoice. The invoice number is assigned by the
// model hook inside the creating transaction; a concurrent writer generating
// the same number surfaces as ErrDuplicateInvoiceNumber, which is safe to
// retry.
func (s *invoiceService) CreateInvoice(input InvoiceInput) (*models.Invoice, error) {
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.DueDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due date is required")
	}
	if input.DueDate.Before(models.Today()) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due date cannot be in the past")
	}
	if input.Discount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "discount cannot be negative")
	}

	if _, err := s.clientService.GetClientByID(input.ClientID); err != nil {
		return nil, err
	}
	project, err := s.projectService.GetProjectByID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.ClientID != input.ClientID {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project does not belong to the client")
	}

	if input.Date.IsZero() {
		input.Date = models.Today()
	}

	invoice := &models.Invoice{
		ClientID:  input.ClientID,
		ProjectID: input.ProjectID,
		Date:      input.Date,
		DueDate:   input.DueDate,
		Amount:    input.Amount,
		TaxRate:   input.TaxRate,
		Discount:  input.Discount,
		Status:    models.InvoiceStatusDraft,
		Notes:     input.Notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(invoice).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateInvoiceNumber
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return invoice, nil
}

// GetInvoiceByID retrieves an invoice by ID
func (s *invoiceService) GetInvoiceByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &invoice, nil
}

// UpdateInvoice updates an invoice's writable fields. The invoice number is
// immutable and terminal invoices cannot be edited.
func (s *invoiceService) UpdateInvoice(id uint, input InvoiceInput) (*models.Invoice, error) {
	invoice, err := s.GetInvoiceByID(id)
	if err != nil {
		return nil, err
	}
	if invoice.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	if input.Amount != 0 {
		if input.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		invoice.Amount = input.Amount
	}
	if !input.Date.IsZero() {
		invoice.Date = input.Date
	}
	if !input.DueDate.IsZero() {
		invoice.DueDate = input.DueDate
	}
	if input.Discount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "discount cannot be negative")
	}
	invoice.Discount = input.Discount
	invoice.TaxRate = input.TaxRate
	invoice.Notes = input.Notes

	if err := s.db.Save(invoice).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invoice, nil
}

// ListInvoices retrieves a paginated, filtered list of invoices.
func (s *invoiceService) ListInvoices(page pagination.PageRequest, filter InvoiceFilter) (*pagination.PageResponse[models.Invoice], error) {
	page.Defaults()

	base := s.db.Model(&models.Invoice{})
	base = applyInvoiceFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var invoices []models.Invoice
	if err := base.Scopes(pagination.Paginate(page)).
		Order("invoice_number DESC").
		Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(invoices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyInvoiceFilters(q *gorm.DB, f InvoiceFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	return q
}

// MarkAsSent moves a draft invoice to sent.
func (s *invoiceService) MarkAsSent(id uint) (*models.Invoice, error) {
	invoice, err := s.GetInvoiceByID(id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != models.InvoiceStatusDraft {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	invoice.Status = models.InvoiceStatusSent
	if err := s.db.Save(invoice).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invoice, nil
}

// MarkAsPaid settles an invoice in full: it creates the matching income record
// and flips the invoice to paid in one transaction, so both commit or neither.
// An already-paid invoice fails cleanly, which makes the retry after a
// concurrent double-submit a no-op with an error instead of a second income.
func (s *invoiceService) MarkAsPaid(id, actorID uint, method models.PaymentMethod) (*models.Invoice, *models.Income, error) {
	invoice, err := s.GetInvoiceByID(id)
	if err != nil {
		return nil, nil, err
	}

	if invoice.Status == models.InvoiceStatusPaid {
		return nil, nil, apperrors.ErrInvoiceAlreadyPaid
	}
	if invoice.Status.IsTerminal() {
		return nil, nil, apperrors.ErrInvalidStatusTransition
	}

	if method == "" {
		method = models.PaymentMethodBankTransfer
	}

	today := models.Today()
	income := &models.Income{
		Amount:        invoice.Amount,
		Date:          today,
		ReceivedDate:  &today,
		ClientID:      invoice.ClientID,
		ProjectID:     invoice.ProjectID,
		InvoiceID:     &invoice.ID,
		PaymentMethod: method,
		Status:        models.IncomeStatusReceived,
		IncomeType:    models.IncomeTypeProjectPayment,
		Description:   fmt.Sprintf("Payment for Invoice #%s", invoice.InvoiceNumber),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(income).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		invoice.Status = models.InvoiceStatusPaid
		invoice.PaidAmount = invoice.TotalAmount()
		if err := tx.Save(invoice).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return invoice, income, nil
}

// RecordPartialPayment applies a payment against the invoice balance. The
// invoice flips to paid once payments cover the total, otherwise to
// partially_paid. Partial payments do not create income records; only the
// full settlement in MarkAsPaid does.
func (s *invoiceService) RecordPartialPayment(id uint, amount int64, method models.PaymentMethod, reference string) (*models.Invoice, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment amount must be greater than zero")
	}

	invoice, err := s.GetInvoiceByID(id)
	if err != nil {
		return nil, err
	}
	if invoice.Status == models.InvoiceStatusPaid {
		return nil, apperrors.ErrInvoiceAlreadyPaid
	}
	if invoice.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	invoice.PaidAmount += amount
	if invoice.PaidAmount >= invoice.TotalAmount() {
		invoice.Status = models.InvoiceStatusPaid
	} else {
		invoice.Status = models.InvoiceStatusPartiallyPaid
	}

	if err := s.db.Save(invoice).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invoice, nil
}

// CancelInvoice cancels an invoice. Cancellation is reachable from any
// non-terminal state.
func (s *invoiceService) CancelInvoice(id uint) (*models.Invoice, error) {
	invoice, err := s.GetInvoiceByID(id)
	if err != nil {
		return nil, err
	}
	if invoice.Status.IsTerminal() {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	invoice.Status = models.InvoiceStatusCancelled
	if err := s.db.Save(invoice).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invoice, nil
}

// GetOverdueInvoices returns invoices past their due date that are not in a
// terminal state, most overdue first.
func (s *invoiceService) GetOverdueInvoices() ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.Model(&models.Invoice{}).
		Where("status NOT IN ? AND due_date < ?", []models.InvoiceStatus{
			models.InvoiceStatusPaid,
			models.InvoiceStatusCancelled,
			models.InvoiceStatusRefunded,
		}, models.Today()).
		Order("due_date ASC").
		Find(&invoices).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invoices, nil
}
