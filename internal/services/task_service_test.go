package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"praxis/internal/models"
	"praxis/internal/pagination"
	"praxis/internal/testutil"
)

func newTaskTestService(db *gorm.DB) TaskServicer {
	clientSvc := NewClientService(db)
	return NewTaskService(db, NewProjectService(db, clientSvc), NewUserService(db))
}

func TestCreateTask(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTaskTestService(db)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db)
		project := testutil.CreateTestProject(t, db, client.ID)

		task, err := svc.CreateTask(TaskInput{
			Name:         "Implement login",
			ProjectID:    project.ID,
			AssignedToID: user.ID,
			DueDate:      time.Now().UTC().AddDate(0, 0, 7),
		})
		testutil.AssertNoError(t, err)

		if task.Status != models.TaskStatusPending {
			t.Errorf("expected status pending, got %s", task.Status)
		}
		if task.Priority != models.PriorityMedium {
			t.Errorf("expected priority medium, got %s", task.Priority)
		}
		if task.TaskType != models.TaskTypeFeature {
			t.Errorf("expected task type feature, got %s", task.TaskType)
		}
	})

	t.Run("rejects_past_due_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTaskTestService(db)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db)
		project := testutil.CreateTestProject(t, db, client.ID)

		_, err := svc.CreateTask(TaskInput{
			Name:         "Late already",
			ProjectID:    project.ID,
			AssignedToID: user.ID,
			DueDate:      time.Now().UTC().AddDate(0, 0, -1),
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTaskTestService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTask(TaskInput{
			Name:         "Orphan",
			ProjectID:    9999,
			AssignedToID: user.ID,
			DueDate:      time.Now().UTC().AddDate(0, 0, 7),
		})
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})

	t.Run("unknown_assignee", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTaskTestService(db)
		client := testutil.CreateTestClient(t, db)
		project := testutil.CreateTestProject(t, db, client.ID)

		_, err := svc.CreateTask(TaskInput{
			Name:         "Unassignable",
			ProjectID:    project.ID,
			AssignedToID: 9999,
			DueDate:      time.Now().UTC().AddDate(0, 0, 7),
		})
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestUpdateTaskStatus(t *testing.T) {
	t.Run("stamps_started_and_completed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTaskTestService(db)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db)
		project := testutil.CreateTestProject(t, db, client.ID)
		task := testutil.CreateTestTask(t, db, project.ID, user.ID, models.TaskStatusPending)

		updated, err := svc.UpdateTaskStatus(task.ID, models.TaskStatusInProgress)
		testutil.AssertNoError(t, err)
		if updated.StartedAt == nil {
			t.Fatal("expected started_at to be stamped")
		}
		startedAt := *updated.StartedAt

		updated, err = svc.UpdateTaskStatus(task.ID, models.TaskStatusCompleted)
		testutil.AssertNoError(t, err)
		if updated.CompletedAt == nil {
			t.Fatal("expected completed_at to be stamped")
		}
		if !updated.StartedAt.Equal(startedAt) {
			t.Error("expected started_at to be stamped only once")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTaskTestService(db)

		_, err := svc.UpdateTaskStatus(9999, models.TaskStatusCompleted)
		testutil.AssertAppError(t, err, "TASK_NOT_FOUND")
	})
}

func TestGetProjectTasks(t *testing.T) {
	t.Run("scoped_to_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTaskTestService(db)
		user := testutil.CreateTestUser(t, db)
		client := testutil.CreateTestClient(t, db)
		project1 := testutil.CreateTestProject(t, db, client.ID)
		project2 := testutil.CreateTestProject(t, db, client.ID)

		testutil.CreateTestTask(t, db, project1.ID, user.ID, models.TaskStatusPending)
		testutil.CreateTestTask(t, db, project1.ID, user.ID, models.TaskStatusPending)
		testutil.CreateTestTask(t, db, project2.ID, user.ID, models.TaskStatusPending)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetProjectTasks(project1.ID, page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 tasks, got %d", result.TotalItems)
		}
	})

	t.Run("unknown_project", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTaskTestService(db)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		_, err := svc.GetProjectTasks(9999, page)
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}
