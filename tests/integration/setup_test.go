package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"praxis/internal/handlers"
	"praxis/internal/logger"
	"praxis/internal/middleware"
	"praxis/internal/models"
	"praxis/internal/services"
	"praxis/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Client{},
		&models.Project{},
		&models.Task{},
		&models.Invoice{},
		&models.Income{},
		&models.Expense{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	clientService := services.NewClientService(db)
	projectService := services.NewProjectService(db, clientService)
	taskService := services.NewTaskService(db, projectService, userService)
	invoiceService := services.NewInvoiceService(db, clientService, projectService)
	incomeService := services.NewIncomeService(db, clientService)
	expenseService := services.NewExpenseService(db, userService, projectService)
	reportService := services.NewReportService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService, auditService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService, auditService)
	taskHandler := handlers.NewTaskHandler(taskService, auditService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, auditService)
	incomeHandler := handlers.NewIncomeHandler(incomeService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	clients := protected.Group("/clients")
	clients.POST("", clientHandler.CreateClient)
	clients.GET("", clientHandler.GetClients)
	clients.GET("/:id", clientHandler.GetClient)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.PATCH("/:id/status", clientHandler.UpdateClientStatus)
	clients.DELETE("/:id", clientHandler.DeleteClient)
	clients.GET("/:id/financial-summary", clientHandler.GetClientFinancialSummary)

	projects := protected.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.PATCH("/:id/status", projectHandler.UpdateProjectStatus)
	projects.PUT("/:id/team", projectHandler.AssignTeamMembers)
	projects.GET("/:id/metrics", projectHandler.GetProjectMetrics)
	projects.GET("/:id/financial-summary", projectHandler.GetProjectFinancialSummary)
	projects.GET("/:id/tasks", projectHandler.GetProjectTasks)

	tasks := protected.Group("/tasks")
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("", taskHandler.GetTasks)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)

	invoices := protected.Group("/invoices")
	invoices.POST("", invoiceHandler.CreateInvoice)
	invoices.GET("", invoiceHandler.GetInvoices)
	invoices.GET("/overdue", invoiceHandler.GetOverdueInvoices)
	invoices.GET("/:id", invoiceHandler.GetInvoice)
	invoices.PUT("/:id", invoiceHandler.UpdateInvoice)
	invoices.POST("/:id/mark-sent", invoiceHandler.MarkInvoiceSent)
	invoices.POST("/:id/mark-paid", invoiceHandler.MarkInvoicePaid)
	invoices.POST("/:id/payments", invoiceHandler.RecordPayment)
	invoices.POST("/:id/cancel", invoiceHandler.CancelInvoice)

	incomes := protected.Group("/incomes")
	incomes.POST("", incomeHandler.RecordIncome)
	incomes.GET("", incomeHandler.GetIncomes)
	incomes.GET("/summary", incomeHandler.GetIncomeSummary)
	incomes.GET("/pending", incomeHandler.GetPendingPayments)
	incomes.GET("/:id", incomeHandler.GetIncome)
	incomes.POST("/:id/mark-received", incomeHandler.MarkIncomeReceived)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/summary", expenseHandler.GetExpenseSummary)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.POST("/:id/approve", expenseHandler.ApproveExpense)
	expenses.POST("/:id/reject", expenseHandler.RejectExpense)
	expenses.POST("/:id/mark-paid", expenseHandler.MarkExpensePaid)
	expenses.POST("/:id/projects", expenseHandler.AttachExpenseToProject)

	reports := protected.Group("/reports")
	reports.GET("/income", reportHandler.GetIncomeReport)
	reports.GET("/expenses", reportHandler.GetExpenseReport)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// createClient creates a client and returns its ID.
func (app *testApp) createClient(t *testing.T, token, name, email string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q}`, name, email)
	rec := app.request("POST", "/api/v1/clients", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client failed: %d %s", rec.Code, rec.Body.String())
	}
	client := parseJSON(t, rec)["client"].(map[string]interface{})
	return client["id"].(float64)
}

// createProject creates a project for the client and returns its ID.
func (app *testApp) createProject(t *testing.T, token string, clientID float64, budget int64) float64 {
	t.Helper()
	start := time.Now().UTC().Format(time.RFC3339)
	end := time.Now().UTC().AddDate(0, 3, 0).Format(time.RFC3339)
	body := fmt.Sprintf(
		`{"name":"Test Project","client_id":%d,"start_date":%q,"end_date":%q,"budget":%d}`,
		int(clientID), start, end, budget)
	rec := app.request("POST", "/api/v1/projects", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project failed: %d %s", rec.Code, rec.Body.String())
	}
	project := parseJSON(t, rec)["project"].(map[string]interface{})
	return project["id"].(float64)
}
