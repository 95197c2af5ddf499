package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "praxis/internal/errors"
	"praxis/internal/models"
	"praxis/internal/pagination"
)

// projectService handles project-related business logic.
type projectService struct {
	db            *gorm.DB
	clientService ClientServicer
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB, clientService ClientServicer) ProjectServicer {
	return &projectService{
		db:            db,
		clientService: clientService,
	}
}

// CreateProject creates a new project. The project code is generated by the
// model hook when not supplied.
func (s *projectService) CreateProject(input ProjectInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if input.Budget < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget cannot be negative")
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start and end dates are required")
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	// Verify the client exists
	if _, err := s.clientService.GetClientByID(input.ClientID); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.ProjectStatusPlanning
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ClientID:    input.ClientID,
		ManagerID:   input.ManagerID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Budget:      input.Budget,
		HourlyRate:  input.HourlyRate,
		Notes:       input.Notes,
	}

	if err := s.db.Create(project).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateProjectCode
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return project, nil
}

// GetProjectByID retrieves a project by ID
func (s *projectService) GetProjectByID(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// UpdateProject updates a project's writable fields. The code is immutable.
func (s *projectService) UpdateProject(id uint, input ProjectInput) (*models.Project, error) {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		project.Name = input.Name
	}
	project.Description = input.Description
	project.Notes = input.Notes
	if input.Status != "" {
		project.Status = input.Status
	}
	if input.Priority != "" {
		project.Priority = input.Priority
	}
	if input.ManagerID != nil {
		project.ManagerID = input.ManagerID
	}
	if !input.StartDate.IsZero() {
		project.StartDate = input.StartDate
	}
	if !input.EndDate.IsZero() {
		project.EndDate = input.EndDate
	}
	if project.EndDate.Before(project.StartDate) {
		return nil, apperrors.ErrInvalidDateRange
	}
	if input.Budget < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget cannot be negative")
	}
	if input.Budget > 0 {
		project.Budget = input.Budget
	}
	if input.HourlyRate > 0 {
		project.HourlyRate = input.HourlyRate
	}

	if err := s.db.Save(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return project, nil
}

// UpdateStatus changes the delivery status of a project
func (s *projectService) UpdateStatus(id uint, status models.ProjectStatus) (*models.Project, error) {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return nil, err
	}

	project.Status = status
	if err := s.db.Save(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return project, nil
}

// AssignTeamMembers replaces the project's team with the given users.
func (s *projectService) AssignTeamMembers(id uint, userIDs []uint) (*models.Project, error) {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return nil, err
	}

	var users []models.User
	if len(userIDs) > 0 {
		if err := s.db.Find(&users, userIDs).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(users) != len(userIDs) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "one or more users do not exist")
		}
	}

	if err := s.db.Model(project).Association("TeamMembers").Replace(users); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	project.TeamMembers = users
	return project, nil
}

// ListProjects retrieves a paginated, filtered list of projects.
func (s *projectService) ListProjects(page pagination.PageRequest, filter ProjectFilter) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	base := s.db.Model(&models.Project{})
	base = applyProjectFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projects []models.Project
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyProjectFilters(q *gorm.DB, f ProjectFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.ManagerID != nil {
		q = q.Where("manager_id = ?", *f.ManagerID)
	}
	return q
}

// GetProjectMetrics computes progress figures for a project. Everything is
// recomputed from current rows on each call; never cached. Each ratio falls
// back to 0 when its denominator is zero.
func (s *projectService) GetProjectMetrics(id uint) (*ProjectMetrics, error) {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return nil, err
	}

	metrics := &ProjectMetrics{ProjectID: project.ID}

	if err := s.db.Model(&models.Task{}).
		Where("project_id = ?", id).
		Count(&metrics.TotalTasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Task{}).
		Where("project_id = ? AND status = ?", id, models.TaskStatusCompleted).
		Count(&metrics.CompletedTasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if metrics.TotalTasks > 0 {
		metrics.CompletionPercentage = float64(metrics.CompletedTasks) / float64(metrics.TotalTasks) * 100
	}
	if project.Budget > 0 {
		metrics.BudgetUtilized = float64(project.ActualCost) / float64(project.Budget) * 100
	}

	summary, err := s.GetFinancialSummary(id)
	if err != nil {
		return nil, err
	}
	if summary.TotalIncome > 0 {
		metrics.ProfitMargin = float64(summary.TotalIncome-summary.TotalExpenses) / float64(summary.TotalIncome) * 100
	}

	return metrics, nil
}

// GetFinancialSummary aggregates money in and out of a project. Expenses are
// attached via the project_expenses join table.
func (s *projectService) GetFinancialSummary(id uint) (*ProjectFinancialSummary, error) {
	project, err := s.GetProjectByID(id)
	if err != nil {
		return nil, err
	}

	summary := &ProjectFinancialSummary{ProjectID: project.ID}

	if err := s.db.Model(&models.Income{}).
		Where("project_id = ?", id).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.TotalIncome).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.Expense{}).
		Joins("JOIN project_expenses ON project_expenses.expense_id = expenses.id").
		Where("project_expenses.project_id = ?", id).
		Select("COALESCE(SUM(expenses.amount), 0)").
		Scan(&summary.TotalExpenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary.BudgetRemaining = project.Budget - summary.TotalExpenses
	return summary, nil
}
