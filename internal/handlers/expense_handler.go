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

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// ExpenseRequest represents the request payload for creating or updating an expense.
type ExpenseRequest struct {
	Title            string     `json:"title" binding:"max=200"`
	Description      string     `json:"description"`
	Amount           int64      `json:"amount" binding:"required,gt=0"`
	TaxAmount        int64      `json:"tax_amount" binding:"omitempty,gte=0"`
	Category         string     `json:"category" binding:"required,expense_category"`
	PaymentMethod    string     `json:"payment_method" binding:"omitempty,payment_method"`
	PaymentReference string     `json:"payment_reference" binding:"max=100"`
	Date             time.Time  `json:"date"`
	DueDate          *time.Time `json:"due_date"`
	Vendor           string     `json:"vendor" binding:"max=200"`
	ReceiptURL       string     `json:"receipt_url"`
	IsRecurring      bool       `json:"is_recurring"`
	RecurringEndDate *time.Time `json:"recurring_end_date"`
	Notes            string     `json:"notes"`
}

// AttachExpenseRequest represents the request payload for linking an expense to a project.
type AttachExpenseRequest struct {
	ProjectID uint `json:"project_id" binding:"required"`
}

func (r *ExpenseRequest) toInput() services.ExpenseInput {
	return services.ExpenseInput{
		Title:            r.Title,
		Description:      r.Description,
		Amount:           r.Amount,
		TaxAmount:        r.TaxAmount,
		Category:         models.ExpenseCategory(r.Category),
		PaymentMethod:    models.PaymentMethod(r.PaymentMethod),
		PaymentReference: r.PaymentReference,
		Date:             r.Date,
		DueDate:          r.DueDate,
		Vendor:           r.Vendor,
		ReceiptURL:       r.ReceiptURL,
		IsRecurring:      r.IsRecurring,
		RecurringEndDate: r.RecurringEndDate,
		Notes:            r.Notes,
	}
}

// CreateExpense handles submitting a new expense.
// @Summary     Create an expense
// @Description Submit a new expense for approval
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "category": req.Category})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses handles listing expenses.
// @Summary     Get expenses
// @Description Get a paginated list of expenses
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status          query string false "Filter by status"
// @Param       category        query string false "Filter by category"
// @Param       submitted_by_id query int    false "Filter by submitter"
// @Param       from            query string false "Expenses dated on or after (YYYY-MM-DD)"
// @Param       to              query string false "Expenses dated on or before (YYYY-MM-DD)"
// @Param       page            query int    false "Page number (default 1)"
// @Param       page_size       query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Paginated expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := expenseFilterFromQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.expenseService.ListExpenses(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func expenseFilterFromQuery(c *gin.Context) (services.ExpenseFilter, error) {
	var filter services.ExpenseFilter
	if v := c.Query("status"); v != "" {
		status := models.ExpenseStatus(v)
		filter.Status = &status
	}
	if v := c.Query("category"); v != "" {
		category := models.ExpenseCategory(v)
		filter.Category = &category
	}
	submittedByID, err := queryUint(c, "submitted_by_id")
	if err != nil {
		return filter, err
	}
	filter.SubmittedByID = submittedByID
	from, err := queryDate(c, "from")
	if err != nil {
		return filter, err
	}
	filter.FromDate = from
	to, err := queryDate(c, "to")
	if err != nil {
		return filter, err
	}
	filter.ToDate = to
	return filter, nil
}

// GetExpense handles retrieving a specific expense.
// @Summary     Get expense by ID
// @Description Get a specific expense by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Expense details"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense handles updating a pending expense.
// @Summary     Update expense
// @Description Update a pending expense; reviewed expenses are immutable
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Expense ID"
// @Param       request body ExpenseRequest true "Updated expense details"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense already reviewed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(expenseID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expenseID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// ApproveExpense handles approving a pending expense.
// @Summary     Approve expense
// @Description Approve a pending expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Approved expense"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense already reviewed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/approve [post]
func (h *ExpenseHandler) ApproveExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.ApproveExpense(expenseID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "APPROVE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// RejectExpense handles rejecting a pending expense.
// @Summary     Reject expense
// @Description Reject a pending expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Rejected expense"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense already reviewed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/reject [post]
func (h *ExpenseHandler) RejectExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.RejectExpense(expenseID, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REJECT_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// MarkExpensePaid handles marking an approved expense as paid.
// @Summary     Mark expense as paid
// @Description Mark an approved expense as paid and stamp the paid date
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} models.Expense "Paid expense"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense not approved"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/mark-paid [post]
func (h *ExpenseHandler) MarkExpensePaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.MarkExpensePaid(expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "MARK_EXPENSE_PAID", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// AttachExpenseToProject handles linking an expense to a project.
// @Summary     Attach expense to project
// @Description Link an expense to a project so it counts toward project costs
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Expense ID"
// @Param       request body AttachExpenseRequest true "Project reference"
// @Success     200 {object} MessageResponse "Expense attached"
// @Failure     400 {object} ErrorResponse "Invalid input or expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense or project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id}/projects [post]
func (h *ExpenseHandler) AttachExpenseToProject(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AttachExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.expenseService.AttachToProject(expenseID, req.ProjectID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ATTACH_EXPENSE_PROJECT", "expense", expenseID, c.ClientIP(),
		map[string]interface{}{"project_id": req.ProjectID})

	c.JSON(http.StatusOK, gin.H{"message": "Expense attached to project"})
}

// GetExpenseSummary handles retrieving an expense summary.
// @Summary     Get expense summary
// @Description Aggregate expenses matching the filter with a category breakdown
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status          query string false "Filter by status"
// @Param       category        query string false "Filter by category"
// @Param       submitted_by_id query int    false "Filter by submitter"
// @Param       from            query string false "Expenses dated on or after (YYYY-MM-DD)"
// @Param       to              query string false "Expenses dated on or before (YYYY-MM-DD)"
// @Success     200 {object} services.ExpenseSummary "Expense summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/summary [get]
func (h *ExpenseHandler) GetExpenseSummary(c *gin.Context) {
	filter, err := expenseFilterFromQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.expenseService.GetExpenseSummary(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
