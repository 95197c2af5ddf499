package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "praxis/internal/errors"
	"praxis/internal/models"
	"praxis/internal/pagination"
)

// clientService handles client-related business logic.
type clientService struct {
	db *gorm.DB
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db}
}

// CreateClient creates a new client
func (s *clientService) CreateClient(input ClientInput) (*models.Client, error) {
	if input.Name == "" || input.Email == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name and email are required")
	}

	if input.Status == "" {
		input.Status = models.ClientStatusActive
	}
	if input.PaymentTerms == 0 {
		input.PaymentTerms = 30
	}

	client := &models.Client{
		Name:         input.Name,
		Email:        strings.ToLower(input.Email),
		Phone:        input.Phone,
		Company:      input.Company,
		Address:      input.Address,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		Country:      input.Country,
		TaxNumber:    input.TaxNumber,
		Industry:     input.Industry,
		Status:       input.Status,
		Notes:        input.Notes,
		BillingEmail: input.BillingEmail,
		PaymentTerms: input.PaymentTerms,
	}

	if err := s.db.Create(client).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateClientEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return client, nil
}

// GetClientByID retrieves a client by ID
func (s *clientService) GetClientByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := s.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &client, nil
}

// UpdateClient updates a client's writable fields
func (s *clientService) UpdateClient(id uint, input ClientInput) (*models.Client, error) {
	client, err := s.GetClientByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		client.Name = input.Name
	}
	if input.Email != "" {
		client.Email = strings.ToLower(input.Email)
	}
	client.Phone = input.Phone
	client.Company = input.Company
	client.Address = input.Address
	client.City = input.City
	client.State = input.State
	client.PostalCode = input.PostalCode
	client.Country = input.Country
	client.TaxNumber = input.TaxNumber
	client.Industry = input.Industry
	client.Notes = input.Notes
	client.BillingEmail = input.BillingEmail
	if input.Status != "" {
		client.Status = input.Status
	}
	if input.PaymentTerms != 0 {
		client.PaymentTerms = input.PaymentTerms
	}

	if err := s.db.Save(client).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateClientEmail
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return client, nil
}

// UpdateStatus changes the lifecycle status of a client
func (s *clientService) UpdateStatus(id uint, status models.ClientStatus) (*models.Client, error) {
	client, err := s.GetClientByID(id)
	if err != nil {
		return nil, err
	}

	client.Status = status
	if err := s.db.Save(client).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return client, nil
}

// ListClients retrieves a paginated, filtered list of clients.
func (s *clientService) ListClients(page pagination.PageRequest, filter ClientFilter) (*pagination.PageResponse[models.Client], error) {
	page.Defaults()

	base := s.db.Model(&models.Client{})
	base = applyClientFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var clients []models.Client
	if err := base.Scopes(pagination.Paginate(page)).
		Order("name ASC").
		Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(clients, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyClientFilters(q *gorm.DB, f ClientFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Industry != nil {
		q = q.Where("industry = ?", *f.Industry)
	}
	if f.Search != nil {
		like := "%" + strings.ToLower(*f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(company) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	return q
}

// DeleteClient soft-deletes a client
func (s *clientService) DeleteClient(id uint) error {
	client, err := s.GetClientByID(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(client).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetFinancialSummary aggregates the client's billing position. Revenue is the
// sum of income amounts; outstanding is the sum of invoice amounts still in
// sent or partially_paid.
func (s *clientService) GetFinancialSummary(id uint) (*ClientFinancialSummary, error) {
	client, err := s.GetClientByID(id)
	if err != nil {
		return nil, err
	}

	summary := &ClientFinancialSummary{ClientID: client.ID}

	if err := s.db.Model(&models.Income{}).
		Where("client_id = ?", id).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.TotalRevenue).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.Invoice{}).
		Where("client_id = ? AND status IN ?", id, []models.InvoiceStatus{
			models.InvoiceStatusSent,
			models.InvoiceStatusPartiallyPaid,
		}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.TotalOutstanding).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	projects := s.db.Model(&models.Project{}).Where("client_id = ?", id)
	if err := projects.Count(&summary.ProjectsCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Project{}).
		Where("client_id = ? AND status = ?", id, models.ProjectStatusInProgress).
		Count(&summary.ActiveProjects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Project{}).
		Where("client_id = ? AND status = ?", id, models.ProjectStatusCompleted).
		Count(&summary.CompletedProjects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return summary, nil
}
