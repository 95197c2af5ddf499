package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "praxis/internal/errors"
	"praxis/internal/models"
	"praxis/internal/pagination"
)

// taskService handles task-related business logic.
type taskService struct {
	db             *gorm.DB
	projectService ProjectServicer
	userService    UserServicer
}

// NewTaskService creates a new TaskServicer.
func NewTaskService(db *gorm.DB, projectService ProjectServicer, userService UserServicer) TaskServicer {
	return &taskService{
		db:             db,
		projectService: projectService,
		userService:    userService,
	}
}

// CreateTask creates a new task on a project
func (s *taskService) CreateTask(input TaskInput) (*models.Task, error) {
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if input.DueDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due date is required")
	}
	if input.DueDate.Before(models.Today()) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due date cannot be in the past")
	}

	if _, err := s.projectService.GetProjectByID(input.ProjectID); err != nil {
		return nil, err
	}
	if _, err := s.userService.GetUserByID(input.AssignedToID); err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.TaskType == "" {
		input.TaskType = models.TaskTypeFeature
	}

	task := &models.Task{
		Name:           input.Name,
		Description:    input.Description,
		Status:         input.Status,
		Priority:       input.Priority,
		TaskType:       input.TaskType,
		ProjectID:      input.ProjectID,
		AssignedToID:   input.AssignedToID,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		ActualHours:    input.ActualHours,
		Notes:          input.Notes,
	}

	if err := s.db.Create(task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return task, nil
}

// GetTaskByID retrieves a task by ID
func (s *taskService) GetTaskByID(id uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &task, nil
}

// UpdateTask updates a task's writable fields
func (s *taskService) UpdateTask(id uint, input TaskInput) (*models.Task, error) {
	task, err := s.GetTaskByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		task.Name = input.Name
	}
	task.Description = input.Description
	task.Notes = input.Notes
	if input.Status != "" {
		task.Status = input.Status
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	if input.TaskType != "" {
		task.TaskType = input.TaskType
	}
	if input.AssignedToID != 0 {
		if _, err := s.userService.GetUserByID(input.AssignedToID); err != nil {
			return nil, err
		}
		task.AssignedToID = input.AssignedToID
	}
	if !input.DueDate.IsZero() {
		task.DueDate = input.DueDate
	}
	if input.EstimatedHours != 0 {
		task.EstimatedHours = input.EstimatedHours
	}
	if input.ActualHours != 0 {
		task.ActualHours = input.ActualHours
	}

	if err := s.db.Save(task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return task, nil
}

// UpdateTaskStatus changes the workflow status of a task. The model hook
// stamps started_at and completed_at on the first matching transition.
func (s *taskService) UpdateTaskStatus(id uint, status models.TaskStatus) (*models.Task, error) {
	task, err := s.GetTaskByID(id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.db.Save(task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return task, nil
}

// GetProjectTasks retrieves a paginated list of tasks for a project.
func (s *taskService) GetProjectTasks(projectID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Task], error) {
	if _, err := s.projectService.GetProjectByID(projectID); err != nil {
		return nil, err
	}

	filter := TaskFilter{ProjectID: &projectID}
	return s.ListTasks(page, filter)
}

// ListTasks retrieves a paginated, filtered list of tasks.
func (s *taskService) ListTasks(page pagination.PageRequest, filter TaskFilter) (*pagination.PageResponse[models.Task], error) {
	page.Defaults()

	base := s.db.Model(&models.Task{})
	base = applyTaskFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var tasks []models.Task
	if err := base.Scopes(pagination.Paginate(page)).
		Order("due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(tasks, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTaskFilters(q *gorm.DB, f TaskFilter) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.TaskType != nil {
		q = q.Where("task_type = ?", *f.TaskType)
	}
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.AssignedToID != nil {
		q = q.Where("assigned_to_id = ?", *f.AssignedToID)
	}
	return q
}
