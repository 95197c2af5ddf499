package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "praxis/internal/errors"
	"praxis/internal/models"
	"praxis/internal/pagination"
	"praxis/internal/services"
)

// TaskHandler handles task-related requests.
type TaskHandler struct {
	taskService  services.TaskServicer
	auditService services.AuditServicer
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService services.TaskServicer, auditService services.AuditServicer) *TaskHandler {
	return &TaskHandler{taskService: taskService, auditService: auditService}
}

// TaskRequest represents the request payload for creating or updating a task.
type TaskRequest struct {
	Name           string    `json:"name" binding:"required,min=1,max=100"`
	Description    string    `json:"description"`
	ProjectID      uint      `json:"project_id" binding:"required"`
	AssignedToID   uint      `json:"assigned_to_id" binding:"required"`
	Status         string    `json:"status" binding:"omitempty,task_status"`
	Priority       string    `json:"priority" binding:"omitempty,priority"`
	TaskType       string    `json:"task_type" binding:"omitempty,task_type"`
	DueDate        time.Time `json:"due_date" binding:"required"`
	EstimatedHours int64     `json:"estimated_hours" binding:"omitempty,gte=0"`
	ActualHours    int64     `json:"actual_hours" binding:"omitempty,gte=0"`
	Notes          string    `json:"notes"`
}

// UpdateTaskStatusRequest represents the request payload for a status change.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,task_status"`
}

func (r *TaskRequest) toInput() services.TaskInput {
	return services.TaskInput{
		Name:           r.Name,
		Description:    r.Description,
		ProjectID:      r.ProjectID,
		AssignedToID:   r.AssignedToID,
		Status:         models.TaskStatus(r.Status),
		Priority:       models.Priority(r.Priority),
		TaskType:       models.TaskType(r.TaskType),
		DueDate:        r.DueDate,
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
		Notes:          r.Notes,
	}
}

// CreateTask handles the creation of a new task.
// @Summary     Create a task
// @Description Create a new task on a project
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TaskRequest true "Task details"
// @Success     201 {object} models.Task "Task created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project or user not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	task, err := h.taskService.CreateTask(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TASK", "task", task.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "project_id": req.ProjectID})

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// GetTasks handles listing tasks.
// @Summary     Get tasks
// @Description Get a paginated list of tasks
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status         query string false "Filter by status"
// @Param       priority       query string false "Filter by priority"
// @Param       task_type      query string false "Filter by task type"
// @Param       project_id     query int    false "Filter by project"
// @Param       assigned_to_id query int    false "Filter by assignee"
// @Param       page           query int    false "Page number (default 1)"
// @Param       page_size      query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Task] "Paginated tasks"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks [get]
func (h *TaskHandler) GetTasks(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.TaskFilter
	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.Priority(v)
		filter.Priority = &priority
	}
	if v := c.Query("task_type"); v != "" {
		taskType := models.TaskType(v)
		filter.TaskType = &taskType
	}
	projectID, err := queryUint(c, "project_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.ProjectID = projectID
	assignedToID, err := queryUint(c, "assigned_to_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.AssignedToID = assignedToID

	result, err := h.taskService.ListTasks(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTask handles retrieving a specific task.
// @Summary     Get task by ID
// @Description Get a specific task by ID
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Task ID"
// @Success     200 {object} models.Task "Task details"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	task, err := h.taskService.GetTaskByID(taskID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateTask handles updating an existing task.
// @Summary     Update task
// @Description Update an existing task
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int         true "Task ID"
// @Param       request body TaskRequest true "Updated task details"
// @Success     200 {object} models.Task "Updated task"
// @Failure     400 {object} ErrorResponse "Invalid input or task ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	task, err := h.taskService.UpdateTask(taskID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TASK", "task", taskID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateTaskStatus handles changing a task's workflow status.
// @Summary     Update task status
// @Description Change the workflow status of a task; start/completion times are stamped
// @Tags        tasks
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                     true "Task ID"
// @Param       request body UpdateTaskStatusRequest true "New status"
// @Success     200 {object} models.Task "Updated task"
// @Failure     400 {object} ErrorResponse "Invalid input or task ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tasks/{id}/status [patch]
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	task, err := h.taskService.UpdateTaskStatus(taskID, models.TaskStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TASK_STATUS", "task", taskID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"task": task})
}
