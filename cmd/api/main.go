package main

import (
	"fmt"
	"net/http"
	"os"

	"praxis/internal/config"
	"praxis/internal/database"
	"praxis/internal/handlers"
	"praxis/internal/logger"
	"praxis/internal/middleware"
	"praxis/internal/services"
	"praxis/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "praxis/internal/docs" // Import swagger docs
)

// @title           Praxis API
// @version         1.0
// @description     Praxis is a business management application for tracking clients, projects, tasks, invoices, income and expenses.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom validation tags
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	clientService := services.NewClientService(db)
	projectService := services.NewProjectService(db, clientService)
	taskService := services.NewTaskService(db, projectService, userService)
	invoiceService := services.NewInvoiceService(db, clientService, projectService)
	incomeService := services.NewIncomeService(db, clientService)
	expenseService := services.NewExpenseService(db, userService, projectService)
	reportService := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService, auditService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService, auditService)
	taskHandler := handlers.NewTaskHandler(taskService, auditService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, auditService)
	incomeHandler := handlers.NewIncomeHandler(incomeService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Client routes
	clients := protected.Group("/clients")
	clients.POST("", clientHandler.CreateClient)
	clients.GET("", clientHandler.GetClients)
	clients.GET("/:id", clientHandler.GetClient)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.PATCH("/:id/status", clientHandler.UpdateClientStatus)
	clients.DELETE("/:id", clientHandler.DeleteClient)
	clients.GET("/:id/financial-summary", clientHandler.GetClientFinancialSummary)

	// Project routes
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

	// Task routes
	tasks := protected.Group("/tasks")
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("", taskHandler.GetTasks)
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)

	// Invoice routes
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

	// Income routes
	incomes := protected.Group("/incomes")
	incomes.POST("", incomeHandler.RecordIncome)
	incomes.GET("", incomeHandler.GetIncomes)
	incomes.GET("/summary", incomeHandler.GetIncomeSummary)
	incomes.GET("/pending", incomeHandler.GetPendingPayments)
	incomes.GET("/:id", incomeHandler.GetIncome)
	incomes.POST("/:id/mark-received", incomeHandler.MarkIncomeReceived)

	// Expense routes
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

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/income", reportHandler.GetIncomeReport)
	reports.GET("/expenses", reportHandler.GetExpenseReport)

	log.Infof("Starting Praxis backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
