package services

import (
	"time"

	"praxis/internal/models"
	"praxis/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string, role models.UserRole) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// ClientInput holds the writable fields of a client.
type ClientInput struct {
	Name         string
	Email        string
	Phone        string
	Company      string
	Address      string
	City         string
	State        string
	PostalCode   string
	Country      string
	TaxNumber    string
	Industry     string
	Status       models.ClientStatus
	Notes        string
	BillingEmail string
	PaymentTerms int
}

// ClientFilter holds optional filter parameters for listing clients.
type ClientFilter struct {
	Status   *models.ClientStatus
	Industry *string
	Search   *string
}

// ClientFinancialSummary aggregates a client's billing position.
type ClientFinancialSummary struct {
	ClientID          uint  `json:"client_id"`
	TotalRevenue      int64 `json:"total_revenue"`
	TotalOutstanding  int64 `json:"total_outstanding"`
	ProjectsCount     int64 `json:"projects_count"`
	ActiveProjects    int64 `json:"active_projects"`
	CompletedProjects int64 `json:"completed_projects"`
}

// ClientServicer defines the contract for client-related business logic.
type ClientServicer interface {
	CreateClient(input ClientInput) (*models.Client, error)
	GetClientByID(id uint) (*models.Client, error)
	UpdateClient(id uint, input ClientInput) (*models.Client, error)
	UpdateStatus(id uint, status models.ClientStatus) (*models.Client, error)
	ListClients(page pagination.PageRequest, filter ClientFilter) (*pagination.PageResponse[models.Client], error)
	DeleteClient(id uint) error
	GetFinancialSummary(id uint) (*ClientFinancialSummary, error)
}

// ProjectInput holds the writable fields of a project.
type ProjectInput struct {
	Name        string
	Description string
	ClientID    uint
	ManagerID   *uint
	Status      models.ProjectStatus
	Priority    models.Priority
	StartDate   time.Time
	EndDate     time.Time
	Budget      int64
	HourlyRate  int64
	Notes       string
}

// ProjectFilter holds optional filter parameters for listing projects.
type ProjectFilter struct {
	Status    *models.ProjectStatus
	Priority  *models.Priority
	ClientID  *uint
	ManagerID *uint
}

// ProjectMetrics contains derived progress figures for a project. All
// percentages are recomputed on read and guarded against division by zero.
type ProjectMetrics struct {
	ProjectID            uint    `json:"project_id"`
	TotalTasks           int64   `json:"total_tasks"`
	CompletedTasks       int64   `json:"completed_tasks"`
	CompletionPercentage float64 `json:"completion_percentage"`
	BudgetUtilized       float64 `json:"budget_utilized"`
	ProfitMargin         float64 `json:"profit_margin"`
}

// ProjectFinancialSummary aggregates money in and out of a project.
type ProjectFinancialSummary struct {
	ProjectID       uint  `json:"project_id"`
	TotalIncome     int64 `json:"total_income"`
	TotalExpenses   int64 `json:"total_expenses"`
	BudgetRemaining int64 `json:"budget_remaining"`
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(input ProjectInput) (*models.Project, error)
	GetProjectByID(id uint) (*models.Project, error)
	UpdateProject(id uint, input ProjectInput) (*models.Project, error)
	UpdateStatus(id uint, status models.ProjectStatus) (*models.Project, error)
	AssignTeamMembers(id uint, userIDs []uint) (*models.Project, error)
	ListProjects(page pagination.PageRequest, filter ProjectFilter) (*pagination.PageResponse[models.Project], error)
	GetProjectMetrics(id uint) (*ProjectMetrics, error)
	GetFinancialSummary(id uint) (*ProjectFinancialSummary, error)
}

// TaskInput holds the writable fields of a task.
type TaskInput struct {
	Name           string
	Description    string
	ProjectID      uint
	AssignedToID   uint
	Status         models.TaskStatus
	Priority       models.Priority
	TaskType       models.TaskType
	DueDate        time.Time
	EstimatedHours int64
	ActualHours    int64
	Notes          string
}

// TaskFilter holds optional filter parameters for listing tasks.
type TaskFilter struct {
	Status       *models.TaskStatus
	Priority     *models.Priority
	TaskType     *models.TaskType
	ProjectID    *uint
	AssignedToID *uint
}

// TaskServicer defines the contract for task-related business logic.
type TaskServicer interface {
	CreateTask(input TaskInput) (*models.Task, error)
	GetTaskByID(id uint) (*models.Task, error)
	UpdateTask(id uint, input TaskInput) (*models.Task, error)
	UpdateTaskStatus(id uint, status models.TaskStatus) (*models.Task, error)
	GetProjectTasks(projectID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Task], error)
	ListTasks(page pagination.PageRequest, filter TaskFilter) (*pagination.PageResponse[models.Task], error)
}

// InvoiceInput holds the writable fields of an invoice. The invoice number is
// never part of the input: it is generated on create and immutable afterwards.
type InvoiceInput struct {
	ClientID  uint
	ProjectID uint
	Date      time.Time
	DueDate   time.Time
	Amount    int64
	TaxRate   float64
	Discount  int64
	Notes     string
}

// InvoiceFilter holds optional filter parameters for listing invoices.
type InvoiceFilter struct {
	Status    *models.InvoiceStatus
	ClientID  *uint
	ProjectID *uint
	FromDate  *time.Time
	ToDate    *time.Time
}

// InvoiceServicer defines the contract for invoice-related business logic.
type InvoiceServicer interface {
	CreateInvoice(input InvoiceInput) (*models.Invoice, error)
	GetInvoiceByID(id uint) (*models.Invoice, error)
	UpdateInvoice(id uint, input InvoiceInput) (*models.Invoice, error)
	ListInvoices(page pagination.PageRequest, filter InvoiceFilter) (*pagination.PageResponse[models.Invoice], error)
	MarkAsSent(id uint) (*models.Invoice, error)
	MarkAsPaid(id, actorID uint, method models.PaymentMethod) (*models.Invoice, *models.Income, error)
	RecordPartialPayment(id uint, amount int64, method models.PaymentMethod, reference string) (*models.Invoice, error)
	CancelInvoice(id uint) (*models.Invoice, error)
	GetOverdueInvoices() ([]models.Invoice, error)
}

// IncomeInput holds the writable fields of an income record.
type IncomeInput struct {
	Amount           int64
	Date             time.Time
	ExpectedDate     *time.Time
	ClientID         uint
	ProjectID        uint
	InvoiceID        *uint
	PaymentMethod    models.PaymentMethod
	PaymentReference string
	IncomeType       models.IncomeType
	Description      string
	Notes            string
	TaxRate          float64
}

// IncomeFilter holds optional filter parameters for listing incomes.
type IncomeFilter struct {
	Status     *models.IncomeStatus
	IncomeType *models.IncomeType
	ClientID   *uint
	ProjectID  *uint
	FromDate   *time.Time
	ToDate     *time.Time
}

// IncomeSummary aggregates received income over a period.
type IncomeSummary struct {
	TotalAmount     int64                          `json:"total_amount"`
	TotalTax        int64                          `json:"total_tax"`
	Count           int64                          `json:"count"`
	ByType          map[models.IncomeType]int64    `json:"by_type"`
	ByPaymentMethod map[models.PaymentMethod]int64 `json:"by_payment_method"`
}

// IncomeServicer defines the contract for income-related business logic.
type IncomeServicer interface {
	RecordIncome(input IncomeInput) (*models.Income, error)
	GetIncomeByID(id uint) (*models.Income, error)
	ListIncomes(page pagination.PageRequest, filter IncomeFilter) (*pagination.PageResponse[models.Income], error)
	MarkReceived(id uint) (*models.Income, error)
	GetIncomeSummary(from, to time.Time) (*IncomeSummary, error)
	GetPendingPayments() ([]models.Income, error)
}

// ExpenseInput holds the writable fields of an expense.
type ExpenseInput struct {
	Title            string
	Description      string
	Amount           int64
	TaxAmount        int64
	Category         models.ExpenseCategory
	PaymentMethod    models.PaymentMethod
	PaymentReference string
	Date             time.Time
	DueDate          *time.Time
	Vendor           string
	ReceiptURL       string
	IsRecurring      bool
	RecurringEndDate *time.Time
	Notes            string
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	Status        *models.ExpenseStatus
	Category      *models.ExpenseCategory
	SubmittedByID *uint
	FromDate      *time.Time
	ToDate        *time.Time
}

// ExpenseSummary aggregates expenses matching a filter.
type ExpenseSummary struct {
	TotalAmount int64                            `json:"total_amount"`
	TotalTax    int64                            `json:"total_tax"`
	Count       int64                            `json:"count"`
	ByCategory  map[models.ExpenseCategory]int64 `json:"by_category"`
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(submittedByID uint, input ExpenseInput) (*models.Expense, error)
	GetExpenseByID(id uint) (*models.Expense, error)
	UpdateExpense(id uint, input ExpenseInput) (*models.Expense, error)
	ListExpenses(page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	ApproveExpense(id, approverID uint) (*models.Expense, error)
	RejectExpense(id, approverID uint) (*models.Expense, error)
	MarkExpensePaid(id uint) (*models.Expense, error)
	AttachToProject(expenseID, projectID uint) error
	GetExpenseSummary(filter ExpenseFilter) (*ExpenseSummary, error)
}

// MonthlyAmount is one month of a trend series, keyed YYYY-MM.
type MonthlyAmount struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

// IncomeReport breaks received income down over a period.
type IncomeReport struct {
	From         time.Time                   `json:"from"`
	To           time.Time                   `json:"to"`
	Total        int64                       `json:"total"`
	ByClient     map[string]int64            `json:"by_client"`
	ByType       map[models.IncomeType]int64 `json:"by_type"`
	MonthlyTrend []MonthlyAmount             `json:"monthly_trend"`
}

// ExpenseReport breaks expenses down over a period.
type ExpenseReport struct {
	From         time.Time                        `json:"from"`
	To           time.Time                        `json:"to"`
	Total        int64                            `json:"total"`
	ByCategory   map[models.ExpenseCategory]int64 `json:"by_category"`
	MonthlyTrend []MonthlyAmount                  `json:"monthly_trend"`
}

// ReportServicer defines the contract for reporting aggregates.
type ReportServicer interface {
	GetIncomeReport(from, to time.Time) (*IncomeReport, error)
	GetExpenseReport(from, to time.Time) (*ExpenseReport, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
