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

// IncomeHandler handles income-related requests.
type IncomeHandler struct {
	incomeService services.IncomeServicer
	auditService  services.AuditServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeService services.IncomeServicer, auditService services.AuditServicer) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService, auditService: auditService}
}

// IncomeRequest represents the request payload for recording income.
type IncomeRequest struct {
	Amount           int64      `json:"amount" binding:"required,gt=0"`
	Date             time.Time  `json:"date"`
	ExpectedDate     *time.Time `json:"expected_date"`
	ClientID         uint       `json:"client_id" binding:"required"`
	ProjectID        uint       `json:"project_id" binding:"required"`
	InvoiceID        *uint      `json:"invoice_id"`
	PaymentMethod    string     `json:"payment_method" binding:"omitempty,payment_method"`
	PaymentReference string     `json:"payment_reference" binding:"max=100"`
	IncomeType       string     `json:"income_type" binding:"required,income_type"`
	Description      string     `json:"description"`
	Notes            string     `json:"notes"`
	TaxRate          float64    `json:"tax_rate" binding:"omitempty,gte=0"`
}

// RecordIncome handles recording a new income.
// @Summary     Record income
// @Description Record funds received or expected from a client
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body IncomeRequest true "Income details"
// @Success     201 {object} models.Income "Income recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [post]
func (h *IncomeHandler) RecordIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	income, err := h.incomeService.RecordIncome(services.IncomeInput{
		Amount:           req.Amount,
		Date:             req.Date,
		ExpectedDate:     req.ExpectedDate,
		ClientID:         req.ClientID,
		ProjectID:        req.ProjectID,
		InvoiceID:        req.InvoiceID,
		PaymentMethod:    models.PaymentMethod(req.PaymentMethod),
		PaymentReference: req.PaymentReference,
		IncomeType:       models.IncomeType(req.IncomeType),
		Description:      req.Description,
		Notes:            req.Notes,
		TaxRate:          req.TaxRate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RECORD_INCOME", "income", income.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "client_id": req.ClientID})

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// GetIncomes handles listing income records.
// @Summary     Get incomes
// @Description Get a paginated list of income records
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status      query string false "Filter by status"
// @Param       income_type query string false "Filter by income type"
// @Param       client_id   query int    false "Filter by client"
// @Param       project_id  query int    false "Filter by project"
// @Param       from        query string false "Incomes dated on or after (YYYY-MM-DD)"
// @Param       to          query string false "Incomes dated on or before (YYYY-MM-DD)"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Income] "Paginated incomes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes [get]
func (h *IncomeHandler) GetIncomes(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.IncomeFilter
	if v := c.Query("status"); v != "" {
		status := models.IncomeStatus(v)
		filter.Status = &status
	}
	if v := c.Query("income_type"); v != "" {
		incomeType := models.IncomeType(v)
		filter.IncomeType = &incomeType
	}
	clientID, err := queryUint(c, "client_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.ClientID = clientID
	projectID, err := queryUint(c, "project_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.ProjectID = projectID
	from, err := queryDate(c, "from")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.FromDate = from
	to, err := queryDate(c, "to")
	if err != nil {
		respondWithError(c, err)
		return
	}
	filter.ToDate = to

	result, err := h.incomeService.ListIncomes(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetIncome handles retrieving a specific income record.
// @Summary     Get income by ID
// @Description Get a specific income record by ID
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Income ID"
// @Success     200 {object} models.Income "Income details"
// @Failure     400 {object} ErrorResponse "Invalid income ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id} [get]
func (h *IncomeHandler) GetIncome(c *gin.Context) {
	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.GetIncomeByID(incomeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// MarkIncomeReceived handles marking a pending income as received.
// @Summary     Mark income as received
// @Description Flip a pending income to received and stamp the received date
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Income ID"
// @Success     200 {object} models.Income "Updated income"
// @Failure     400 {object} ErrorResponse "Invalid income ID or income not pending"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/{id}/mark-received [post]
func (h *IncomeHandler) MarkIncomeReceived(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.MarkReceived(incomeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "MARK_INCOME_RECEIVED", "income", incomeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// GetIncomeSummary handles retrieving an income summary over a period.
// @Summary     Get income summary
// @Description Aggregate received income over a period with type and method breakdowns
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from query string true "Period start (YYYY-MM-DD)"
// @Param       to   query string true "Period end (YYYY-MM-DD)"
// @Success     200 {object} services.IncomeSummary "Income summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/summary [get]
func (h *IncomeHandler) GetIncomeSummary(c *gin.Context) {
	from, err := queryDate(c, "from")
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := queryDate(c, "to")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if from == nil || to == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from and to are required"))
		return
	}

	summary, err := h.incomeService.GetIncomeSummary(*from, *to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetPendingPayments handles listing pending income ordered by expected date.
// @Summary     Get pending payments
// @Description Get pending income records ordered by expected date
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Income "Pending incomes"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /incomes/pending [get]
func (h *IncomeHandler) GetPendingPayments(c *gin.Context) {
	incomes, err := h.incomeService.GetPendingPayments()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"incomes": incomes})
}
