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

// ProjectHandler handles project-related requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
	taskService    services.TaskServicer
	auditService   services.AuditServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService services.ProjectServicer, taskService services.TaskServicer, auditService services.AuditServicer) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		taskService:    taskService,
		auditService:   auditService,
	}
}

// ProjectRequest represents the request payload for creating or updating a project.
type ProjectRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=100"`
	Description string    `json:"description"`
	ClientID    uint      `json:"client_id" binding:"required"`
	ManagerID   *uint     `json:"manager_id"`
	Status      string    `json:"status" binding:"omitempty,project_status"`
	Priority    string    `json:"priority" binding:"omitempty,priority"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	Budget      int64     `json:"budget" binding:"omitempty,gte=0"`
	HourlyRate  int64     `json:"hourly_rate" binding:"omitempty,gte=0"`
	Notes       string    `json:"notes"`
}

// UpdateProjectStatusRequest represents the request payload for a status change.
type UpdateProjectStatusRequest struct {
	Status string `json:"status" binding:"required,project_status"`
}

// AssignTeamRequest represents the request payload for assigning team members.
type AssignTeamRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required"`
}

func (r *ProjectRequest) toInput() services.ProjectInput {
	return services.ProjectInput{
		Name:        r.Name,
		Description: r.Description,
		ClientID:    r.ClientID,
		ManagerID:   r.ManagerID,
		Status:      models.ProjectStatus(r.Status),
		Priority:    models.Priority(r.Priority),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Budget:      r.Budget,
		HourlyRate:  r.HourlyRate,
		Notes:       r.Notes,
	}
}

// CreateProject handles the creation of a new project.
// @Summary     Create a project
// @Description Create a new project for a client; the project code is generated
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ProjectRequest true "Project details"
// @Success     201 {object} models.Project "Project created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.CreateProject(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PROJECT", "project", project.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "client_id": req.ClientID, "code": project.Code})

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects handles listing projects.
// @Summary     Get projects
// @Description Get a paginated list of projects
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status     query string false "Filter by status"
// @Param       priority   query string false "Filter by priority"
// @Param       client_id  query int    false "Filter by client"
// @Param       manager_id query int    false "Filter by manager"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Project] "Paginated projects"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.ProjectFilter
	if v := c.Query("status"); v != "" {
		status := models.ProjectStatus(v)
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.Priority(v)
		filter.Priority = &priority
	}
	clientID, err := queryUint(c, "client_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.ClientID = clientID
	managerID, err := queryUint(c, "manager_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.ManagerID = managerID

	result, err := h.projectService.ListProjects(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProject handles retrieving a specific project.
// @Summary     Get project by ID
// @Description Get a specific project by ID
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} models.Project "Project details"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.GetProjectByID(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProject handles updating an existing project.
// @Summary     Update project
// @Description Update an existing project; the code is immutable
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Project ID"
// @Param       request body ProjectRequest true "Updated project details"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input or project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.UpdateProject(projectID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PROJECT", "project", projectID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProjectStatus handles changing a project's delivery status.
// @Summary     Update project status
// @Description Change the delivery status of a project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                        true "Project ID"
// @Param       request body UpdateProjectStatusRequest true "New status"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input or project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/status [patch]
func (h *ProjectHandler) UpdateProjectStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.UpdateStatus(projectID, models.ProjectStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PROJECT_STATUS", "project", projectID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// AssignTeamMembers handles replacing a project's team.
// @Summary     Assign team members
// @Description Replace the project's team with the given users
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Project ID"
// @Param       request body AssignTeamRequest true "Team member user IDs"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input or project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/team [put]
func (h *ProjectHandler) AssignTeamMembers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssignTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	project, err := h.projectService.AssignTeamMembers(projectID, req.UserIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ASSIGN_PROJECT_TEAM", "project", projectID, c.ClientIP(),
		map[string]interface{}{"user_ids": req.UserIDs})

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// GetProjectMetrics handles retrieving a project's derived metrics.
// @Summary     Get project metrics
// @Description Get completion percentage, budget utilization and profit margin
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} services.ProjectMetrics "Project metrics"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/metrics [get]
func (h *ProjectHandler) GetProjectMetrics(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	metrics, err := h.projectService.GetProjectMetrics(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// GetProjectFinancialSummary handles retrieving a project's financial summary.
// @Summary     Get project financial summary
// @Description Get total income, expenses and budget remaining for a project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} services.ProjectFinancialSummary "Financial summary"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/financial-summary [get]
func (h *ProjectHandler) GetProjectFinancialSummary(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.projectService.GetFinancialSummary(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetProjectTasks handles listing tasks for a project.
// @Summary     Get project tasks
// @Description Get a paginated list of tasks for a project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "Project ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Task] "Paginated tasks"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{id}/tasks [get]
func (h *ProjectHandler) GetProjectTasks(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.taskService.GetProjectTasks(projectID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
