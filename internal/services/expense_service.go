package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "praxis/internal/errors"
	"praxis/internal/models"
	"praxis/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db             *gorm.DB
	userService    UserServicer
	projectService ProjectServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, userService UserServicer, projectService ProjectServicer) ExpenseServicer {
	return &expenseService{
		db:             db,
		userService:    userService,
		projectService: projectService,
	}
}

// CreateExpense submits a new expense for approval. A missing title defaults
// from the category and date in the model hook.
func (s *expenseService) CreateExpense(submittedByID uint, input ExpenseInput) (*models.Expense, error) {
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.Category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	if _, err := s.userService.GetUserByID(submittedByID); err != nil {
		return nil, err
	}

	if input.Date.IsZero() {
		input.Date = models.Today()
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = models.PaymentMethodBankTransfer
	}

	expense := &models.Expense{
		Title:            input.Title,
		Description:      input.Description,
		Amount:           input.Amount,
		TaxAmount:        input.TaxAmount,
		Category:         input.Category,
		PaymentMethod:    input.PaymentMethod,
		PaymentReference: input.PaymentReference,
		Date:             input.Date,
		DueDate:          input.DueDate,
		Vendor:           input.Vendor,
		ReceiptURL:       input.ReceiptURL,
		Status:           models.ExpenseStatusPending,
		SubmittedByID:    submittedByID,
		IsRecurring:      input.IsRecurring,
		RecurringEndDate: input.RecurringEndDate,
		Notes:            input.Notes,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetExpenseByID retrieves an expense by ID
func (s *expenseService) GetExpenseByID(id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.First(&expense, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense updates a pending expense's writable fields. Reviewed
// expenses are immutable.
func (s *expenseService) UpdateExpense(id uint, input ExpenseInput) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return nil, err
	}
	if expense.Status != models.ExpenseStatusPending {
		return nil, apperrors.ErrExpenseNotPending
	}

	if input.Amount != 0 {
		if input.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		expense.Amount = input.Amount
	}
	if input.Title != "" {
		expense.Title = input.Title
	}
	if input.Category != "" {
		expense.Category = input.Category
	}
	if input.PaymentMethod != "" {
		expense.PaymentMethod = input.PaymentMethod
	}
	if !input.Date.IsZero() {
		expense.Date = input.Date
	}
	expense.Description = input.Description
	expense.TaxAmount = input.TaxAmount
	expense.PaymentReference = input.PaymentReference
	expense.DueDate = input.DueDate
	expense.Vendor = input.Vendor
	expense.ReceiptURL = input.ReceiptURL
	expense.IsRecurring = input.IsRecurring
	expense.RecurringEndDate = input.RecurringEndDate
	expense.Notes = input.Notes

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// ListExpenses retrieves a paginated, filtered list of expenses.
func (s *expenseService) ListExpenses(page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{})
	base = applyExpenseFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.SubmittedByID != nil {
		q = q.Where("submitted_by_id = ?", *f.SubmittedByID)
	}
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	return q
}

// ApproveExpense approves a pending expense and stamps the reviewer.
func (s *expenseService) ApproveExpense(id, approverID uint) (*models.Expense, error) {
	return s.review(id, approverID, models.ExpenseStatusApproved)
}

// RejectExpense rejects a pending expense and stamps the reviewer.
func (s *expenseService) RejectExpense(id, approverID uint) (*models.Expense, error) {
	return s.review(id, approverID, models.ExpenseStatusRejected)
}

func (s *expenseService) review(id, approverID uint, outcome models.ExpenseStatus) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return nil, err
	}
	if expense.Status != models.ExpenseStatusPending {
		return nil, apperrors.ErrExpenseNotPending
	}

	if _, err := s.userService.GetUserByID(approverID); err != nil {
		return nil, err
	}

	expense.Status = outcome
	expense.ApprovedByID = &approverID

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// MarkExpensePaid marks an approved expense as paid and stamps the paid date.
func (s *expenseService) MarkExpensePaid(id uint) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(id)
	if err != nil {
		return nil, err
	}
	if expense.Status != models.ExpenseStatusApproved {
		return nil, apperrors.ErrExpenseNotApproved
	}

	today := models.Today()
	expense.Status = models.ExpenseStatusPaid
	expense.PaidDate = &today

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// AttachToProject links an expense to a project so it counts toward the
// project's cost rollups.
func (s *expenseService) AttachToProject(expenseID, projectID uint) error {
	expense, err := s.GetExpenseByID(expenseID)
	if err != nil {
		return err
	}
	project, err := s.projectService.GetProjectByID(projectID)
	if err != nil {
		return err
	}

	if err := s.db.Model(expense).Association("Projects").Append(project); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetExpenseSummary aggregates expenses matching the filter.
func (s *expenseService) GetExpenseSummary(filter ExpenseFilter) (*ExpenseSummary, error) {
	base := s.db.Model(&models.Expense{})
	base = applyExpenseFilters(base, filter)

	summary := &ExpenseSummary{
		ByCategory: make(map[models.ExpenseCategory]int64),
	}

	var expenses []models.Expense
	if err := base.Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, expense := range expenses {
		summary.TotalAmount += expense.Amount
		summary.TotalTax += expense.TaxAmount
		summary.Count++
		summary.ByCategory[expense.Category] += expense.Amount
	}

	return summary, nil
}
