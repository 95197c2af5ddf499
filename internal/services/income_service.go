package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "praxis/internal/errors"
	"praxis/internal/models"
	"praxis/internal/pagination"
)

// incomeService handles income-related business logic.
type incomeService struct {
	db            *gorm.DB
	clientService ClientServicer
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB, clientService ClientServicer) IncomeServicer {
	return &incomeService{
		db:            db,
		clientService: clientService,
	}
}

// RecordIncome records funds received or expected from a client.
func (s *incomeService) RecordIncome(input IncomeInput) (*models.Income, error) {
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.IncomeType == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income type is required")
	}

	if _, err := s.clientService.GetClientByID(input.ClientID); err != nil {
		return nil, err
	}

	if input.Date.IsZero() {
		input.Date = models.Today()
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentMethodBankTransfer
	}

	income := &models.Income{
		Amount:           input.Amount,
		Date:             input.Date,
		ExpectedDate:     input.ExpectedDate,
		ClientID:         input.ClientID,
		ProjectID:        input.ProjectID,
		InvoiceID:        input.InvoiceID,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: input.PaymentReference,
		Status:           models.IncomeStatusPending,
		IncomeType:       input.IncomeType,
		Description:      input.Description,
		Notes:            input.Notes,
		TaxRate:          input.TaxRate,
	}

	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// GetIncomeByID retrieves an income record by ID
func (s *incomeService) GetIncomeByID(id uint) (*models.Income, error) {
	var income models.Income
	if err := s.db.First(&income, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// ListIncomes retrieves a paginated, filtered list of income records.
func (s *incomeService) ListIncomes(page pagination.PageRequest, filter IncomeFilter) (*pagination.PageResponse[models.Income], error) {
	page.Defaults()

	base := s.db.Model(&models.Income{})
	base = applyIncomeFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyIncomeFilters(q *gorm.DB, f IncomeFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.IncomeType != nil {
		q = q.Where("income_type = ?", *f.IncomeType)
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

// MarkReceived flips a pending income to received and stamps the received date.
func (s *incomeService) MarkReceived(id uint) (*models.Income, error) {
	income, err := s.GetIncomeByID(id)
	if err != nil {
		return nil, err
	}
	if income.Status != models.IncomeStatusPending {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "only pending income can be marked as received")
	}

	today := models.Today()
	income.Status = models.IncomeStatusReceived
	income.ReceivedDate = &today

	if err := s.db.Save(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// GetIncomeSummary aggregates received income over [from, to].
func (s *incomeService) GetIncomeSummary(from, to time.Time) (*IncomeSummary, error) {
	base := s.db.Model(&models.Income{}).
		Where("status = ? AND date >= ? AND date <= ?", models.IncomeStatusReceived, from, to)

	summary := &IncomeSummary{
		ByType:          make(map[models.IncomeType]int64),
		ByPaymentMethod: make(map[models.PaymentMethod]int64),
	}

	var incomes []models.Income
	if err := base.Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, income := range incomes {
		summary.TotalAmount += income.Amount
		summary.TotalTax += income.TaxAmount
		summary.Count++
		summary.ByType[income.IncomeType] += income.Amount
		summary.ByPaymentMethod[income.PaymentMethod] += income.Amount
	}

	return summary, nil
}

// GetPendingPayments returns pending income records ordered by expected date,
// soonest first. Records without an expected date sort last.
func (s *incomeService) GetPendingPayments() ([]models.Income, error) {
	var incomes []models.Income
	err := s.db.Model(&models.Income{}).
		Where("status = ?", models.IncomeStatusPending).
		Order("expected_date IS NULL, expected_date ASC").
		Find(&incomes).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return incomes, nil
}
