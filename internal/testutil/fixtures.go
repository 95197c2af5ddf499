package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"praxis/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.UserRoleEmployee,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestClient creates an active client with a unique email.
func CreateTestClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()

	n := nextID()
	client := &models.Client{
		Name:         fmt.Sprintf("Test Client %d", n),
		Email:        fmt.Sprintf("client%d@test.com", n),
		Status:       models.ClientStatusActive,
		PaymentTerms: 30,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestProject creates an in-progress project for the given client.
func CreateTestProject(t *testing.T, db *gorm.DB, clientID uint) *models.Project {
	t.Helper()
	return CreateTestProjectWithBudget(t, db, clientID, 1000000) // $10,000.00
}

// CreateTestProjectWithBudget creates a project with the given budget (in cents).
func CreateTestProjectWithBudget(t *testing.T, db *gorm.DB, clientID uint, budget int64) *models.Project {
	t.Helper()

	now := time.Now().UTC()
	project := &models.Project{
		Name:      fmt.Sprintf("Test Project %d", nextID()),
		Status:    models.ProjectStatusInProgress,
		Priority:  models.PriorityMedium,
		ClientID:  clientID,
		StartDate: now,
		EndDate:   now.AddDate(0, 3, 0),
		Budget:    budget,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestTask creates a task on the given project with the given status.
func CreateTestTask(t *testing.T, db *gorm.DB, projectID, assignedToID uint, status models.TaskStatus) *models.Task {
	t.Helper()

	task := &models.Task{
		Name:         fmt.Sprintf("Test Task %d", nextID()),
		Status:       status,
		Priority:     models.PriorityMedium,
		TaskType:     models.TaskTypeFeature,
		ProjectID:    projectID,
		AssignedToID: assignedToID,
		DueDate:      time.Now().UTC().AddDate(0, 0, 14),
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateTestInvoice creates a draft invoice with the given amount (in cents).
func CreateTestInvoice(t *testing.T, db *gorm.DB, clientID, projectID uint, amount int64) *models.Invoice {
	t.Helper()

	now := time.Now().UTC()
	invoice := &models.Invoice{
		ClientID:  clientID,
		ProjectID: projectID,
		Date:      now,
		DueDate:   now.AddDate(0, 1, 0),
		Amount:    amount,
		Status:    models.InvoiceStatusDraft,
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("failed to create test invoice: %v", err)
	}
	return invoice
}

// CreateTestIncome creates a received income with the given amount (in cents).
func CreateTestIncome(t *testing.T, db *gorm.DB, clientID, projectID uint, amount int64) *models.Income {
	t.Helper()

	now := time.Now().UTC()
	income := &models.Income{
		Amount:        amount,
		Date:          now,
		ReceivedDate:  &now,
		ClientID:      clientID,
		ProjectID:     projectID,
		PaymentMethod: models.PaymentMethodBankTransfer,
		Status:        models.IncomeStatusReceived,
		IncomeType:    models.IncomeTypeProjectPayment,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestExpense creates a pending expense with the given amount (in cents).
func CreateTestExpense(t *testing.T, db *gorm.DB, submittedByID uint, amount int64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Title:         fmt.Sprintf("Test Expense %d", nextID()),
		Amount:        amount,
		Category:      models.ExpenseCategorySoftware,
		PaymentMethod: models.PaymentMethodBankTransfer,
		Date:          time.Now().UTC(),
		Status:        models.ExpenseStatusPending,
		SubmittedByID: submittedByID,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
