package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "praxis/internal/errors"
	"praxis/internal/models"
	"praxis/internal/pagination"
	"praxis/internal/services"
)

type mockProjectService struct {
	createProjectFn     func(input services.ProjectInput) (*models.Project, error)
	getProjectByIDFn    func(id uint) (*models.Project, error)
	updateProjectFn     func(id uint, input services.ProjectInput) (*models.Project, error)
	updateStatusFn      func(id uint, status models.ProjectStatus) (*models.Project, error)
	assignTeamMembersFn func(id uint, userIDs []uint) (*models.Project, error)
	listProjectsFn      func(page pagination.PageRequest, filter services.ProjectFilter) (*pagination.PageResponse[models.Project], error)
	getMetricsFn        func(id uint) (*services.ProjectMetrics, error)
	getFinancialFn      func(id uint) (*services.ProjectFinancialSummary, error)
}

func (m *mockProjectService) CreateProject(input services.ProjectInput) (*models.Project, error) {
	if m.createProjectFn != nil {
		return m.createProjectFn(input)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) GetProjectByID(id uint) (*models.Project, error) {
	if m.getProjectByIDFn != nil {
		return m.getProjectByIDFn(id)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) UpdateProject(id uint, input services.ProjectInput) (*models.Project, error) {
	if m.updateProjectFn != nil {
		return m.updateProjectFn(id, input)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) UpdateStatus(id uint, status models.ProjectStatus) (*models.Project, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(id, status)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) AssignTeamMembers(id uint, userIDs []uint) (*models.Project, error) {
	if m.assignTeamMembersFn != nil {
		return m.assignTeamMembersFn(id, userIDs)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) ListProjects(page pagination.PageRequest, filter services.ProjectFilter) (*pagination.PageResponse[models.Project], error) {
	if m.listProjectsFn != nil {
		return m.listProjectsFn(page, filter)
	}
	result := pagination.NewPageResponse([]models.Project{}, 1, 20, 0)
	return &result, nil
}

func (m *mockProjectService) GetProjectMetrics(id uint) (*services.ProjectMetrics, error) {
	if m.getMetricsFn != nil {
		return m.getMetricsFn(id)
	}
	return &services.ProjectMetrics{ProjectID: id}, nil
}

func (m *mockProjectService) GetFinancialSummary(id uint) (*services.ProjectFinancialSummary, error) {
	if m.getFinancialFn != nil {
		return m.getFinancialFn(id)
	}
	return &services.ProjectFinancialSummary{ProjectID: id}, nil
}

type mockTaskService struct {
	createTaskFn      func(input services.TaskInput) (*models.Task, error)
	getTaskByIDFn     func(id uint) (*models.Task, error)
	updateTaskFn      func(id uint, input services.TaskInput) (*models.Task, error)
	updateStatusFn    func(id uint, status models.TaskStatus) (*models.Task, error)
	getProjectTasksFn func(projectID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Task], error)
	listTasksFn       func(page pagination.PageRequest, filter services.TaskFilter) (*pagination.PageResponse[models.Task], error)
}

func (m *mockTaskService) CreateTask(input services.TaskInput) (*models.Task, error) {
	if m.createTaskFn != nil {
		return m.createTaskFn(input)
	}
	return &models.Task{}, nil
}

func (m *mockTaskService) GetTaskByID(id uint) (*models.Task, error) {
	if m.getTaskByIDFn != nil {
		return m.getTaskByIDFn(id)
	}
	return &models.Task{}, nil
}

func (m *mockTaskService) UpdateTask(id uint, input services.TaskInput) (*models.Task, error) {
	if m.updateTaskFn != nil {
		return m.updateTaskFn(id, input)
	}
	return &models.Task{}, nil
}

func (m *mockTaskService) UpdateTaskStatus(id uint, status models.TaskStatus) (*models.Task, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(id, status)
	}
	return &models.Task{}, nil
}

func (m *mockTaskService) GetProjectTasks(projectID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Task], error) {
	if m.getProjectTasksFn != nil {
		return m.getProjectTasksFn(projectID, page)
	}
	result := pagination.NewPageResponse([]models.Task{}, 1, 20, 0)
	return &result, nil
}

func (m *mockTaskService) ListTasks(page pagination.PageRequest, filter services.TaskFilter) (*pagination.PageResponse[models.Task], error) {
	if m.listTasksFn != nil {
		return m.listTasksFn(page, filter)
	}
	result := pagination.NewPageResponse([]models.Task{}, 1, 20, 0)
	return &result, nil
}

func setupProjectRouter(handler *ProjectHandler) *gin.Engine {
	r := gin.New()
	projects := r.Group("/projects", injectUserID(1))
	{
		projects.POST("", handler.CreateProject)
		projects.GET("/:id", handler.GetProject)
		projects.PATCH("/:id/status", handler.UpdateProjectStatus)
		projects.PUT("/:id/team", handler.AssignTeamMembers)
		projects.GET("/:id/metrics", handler.GetProjectMetrics)
		projects.GET("/:id/tasks", handler.GetProjectTasks)
	}
	return r
}

func newProjectHandler(projectSvc *mockProjectService) *ProjectHandler {
	return NewProjectHandler(projectSvc, &mockTaskService{}, &mockAuditService{})
}

func TestProjectHandler_CreateProject(t *testing.T) {
	validBody := `{"name":"Website Redesign","client_id":1,` +
		`"start_date":"2026-09-01T00:00:00Z","end_date":"2026-12-01T00:00:00Z","budget":50000}`

	t.Run("returns 201 on success", func(t *testing.T) {
		projectSvc := &mockProjectService{
			createProjectFn: func(input services.ProjectInput) (*models.Project, error) {
				return &models.Project{
					Base:      models.Base{ID: 1},
					Name:      input.Name,
					Code:      "P2026001",
					ClientID:  input.ClientID,
					Status:    models.ProjectStatusPlanning,
					StartDate: input.StartDate,
					EndDate:   input.EndDate,
					Budget:    input.Budget,
				}, nil
			},
		}
		r := setupProjectRouter(newProjectHandler(projectSvc))

		rec := doRequest(r, "POST", "/projects", validBody)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		project := parseJSON(t, rec)["project"].(map[string]interface{})
		if project["code"] != "P2026001" {
			t.Errorf("expected generated code, got %v", project["code"])
		}
	})

	t.Run("returns 400 on missing dates", func(t *testing.T) {
		r := setupProjectRouter(newProjectHandler(&mockProjectService{}))

		rec := doRequest(r, "POST", "/projects", `{"name":"No Dates","client_id":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on inverted date range", func(t *testing.T) {
		projectSvc := &mockProjectService{
			createProjectFn: func(_ services.ProjectInput) (*models.Project, error) {
				return nil, apperrors.ErrInvalidDateRange
			},
		}
		r := setupProjectRouter(newProjectHandler(projectSvc))

		rec := doRequest(r, "POST", "/projects", validBody)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_DATE_RANGE")
	})

	t.Run("returns 404 when client missing", func(t *testing.T) {
		projectSvc := &mockProjectService{
			createProjectFn: func(_ services.ProjectInput) (*models.Project, error) {
				return nil, apperrors.ErrClientNotFound
			},
		}
		r := setupProjectRouter(newProjectHandler(projectSvc))

		rec := doRequest(r, "POST", "/projects", validBody)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestProjectHandler_UpdateProjectStatus(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotStatus models.ProjectStatus
		projectSvc := &mockProjectService{
			updateStatusFn: func(id uint, status models.ProjectStatus) (*models.Project, error) {
				gotStatus = status
				return &models.Project{Base: models.Base{ID: id}, Status: status}, nil
			},
		}
		r := setupProjectRouter(newProjectHandler(projectSvc))

		rec := doRequest(r, "PATCH", "/projects/1/status", `{"status":"in_progress"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStatus != models.ProjectStatusInProgress {
			t.Errorf("expected in_progress to be passed through, got %s", gotStatus)
		}
	})

	t.Run("returns 400 on unknown status", func(t *testing.T) {
		r := setupProjectRouter(newProjectHandler(&mockProjectService{}))

		rec := doRequest(r, "PATCH", "/projects/1/status", `{"status":"launched"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProjectHandler_AssignTeamMembers(t *testing.T) {
	t.Run("returns 200 with updated project", func(t *testing.T) {
		var gotIDs []uint
		projectSvc := &mockProjectService{
			assignTeamMembersFn: func(id uint, userIDs []uint) (*models.Project, error) {
				gotIDs = userIDs
				return &models.Project{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupProjectRouter(newProjectHandler(projectSvc))

		rec := doRequest(r, "PUT", "/projects/1/team", `{"user_ids":[2,3]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(gotIDs) != 2 || gotIDs[0] != 2 || gotIDs[1] != 3 {
			t.Errorf("expected user IDs [2 3] to be passed through, got %v", gotIDs)
		}
	})

	t.Run("returns 400 on missing user_ids", func(t *testing.T) {
		r := setupProjectRouter(newProjectHandler(&mockProjectService{}))

		rec := doRequest(r, "PUT", "/projects/1/team", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when a user does not exist", func(t *testing.T) {
		projectSvc := &mockProjectService{
			assignTeamMembersFn: func(_ uint, _ []uint) (*models.Project, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "one or more users do not exist")
			},
		}
		r := setupProjectRouter(newProjectHandler(projectSvc))

		rec := doRequest(r, "PUT", "/projects/1/team", `{"user_ids":[999]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestProjectHandler_GetProjectMetrics(t *testing.T) {
	t.Run("returns 200 with metrics", func(t *testing.T) {
		projectSvc := &mockProjectService{
			getMetricsFn: func(id uint) (*services.ProjectMetrics, error) {
				return &services.ProjectMetrics{
					ProjectID:            id,
					TotalTasks:           4,
					CompletedTasks:       2,
					CompletionPercentage: 50,
				}, nil
			},
		}
		r := setupProjectRouter(newProjectHandler(projectSvc))

		rec := doRequest(r, "GET", "/projects/1/metrics", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		metrics := parseJSON(t, rec)["metrics"].(map[string]interface{})
		if metrics["completion_percentage"].(float64) != 50 {
			t.Errorf("expected 50%% completion, got %v", metrics["completion_percentage"])
		}
	})

	t.Run("returns 404 when project missing", func(t *testing.T) {
		projectSvc := &mockProjectService{
			getMetricsFn: func(_ uint) (*services.ProjectMetrics, error) {
				return nil, apperrors.ErrProjectNotFound
			},
		}
		r := setupProjectRouter(newProjectHandler(projectSvc))

		rec := doRequest(r, "GET", "/projects/999/metrics", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestProjectHandler_GetProjectTasks(t *testing.T) {
	t.Run("returns paginated tasks", func(t *testing.T) {
		taskSvc := &mockTaskService{
			getProjectTasksFn: func(projectID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Task], error) {
				tasks := []models.Task{
					{Base: models.Base{ID: 1}, Name: "Design schema", ProjectID: projectID, DueDate: time.Now().Add(24 * time.Hour)},
				}
				result := pagination.NewPageResponse(tasks, 1, 20, 1)
				return &result, nil
			},
		}
		handler := NewProjectHandler(&mockProjectService{}, taskSvc, &mockAuditService{})
		r := setupProjectRouter(handler)

		rec := doRequest(r, "GET", "/projects/1/tasks", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 {
			t.Fatalf("expected 1 task, got %d", len(data))
		}
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected total_items 1, got %v", result["total_items"])
		}
	})
}
