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

// InvoiceHandler handles invoice-related requests.
type InvoiceHandler struct {
	invoiceService services.InvoiceServicer
	auditService   services.AuditServicer
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService services.InvoiceServicer, auditService services.AuditServicer) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, auditService: auditService}
}

// InvoiceRequest represents the request payload for creating or updating an invoice.
type InvoiceRequest struct {
	ClientID  uint      `json:"client_id" binding:"required"`
	ProjectID uint      `json:"project_id" binding:"required"`
	Date      time.Time `json:"date"`
	DueDate   time.Time `json:"due_date" binding:"required"`
	Amount    int64     `json:"amount" binding:"required,gt=0"`
	TaxRate   float64   `json:"tax_rate" binding:"omitempty,gte=0"`
	Discount  int64     `json:"discount" binding:"omitempty,gte=0"`
	Notes     string    `json:"notes"`
}

// MarkPaidRequest represents the request payload for settling an invoice.
type MarkPaidRequest struct {
	PaymentMethod string `json:"payment_method" binding:"omitempty,payment_method"`
}

// PartialPaymentRequest represents the request payload for recording a payment.
type PartialPaymentRequest struct {
	Amount           int64  `json:"amount" binding:"required,gt=0"`
	PaymentMethod    string `json:"payment_method" binding:"omitempty,payment_method"`
	PaymentReference string `json:"payment_reference" binding:"max=100"`
}

func (r *InvoiceRequest) toInput() services.InvoiceInput {
	return services.InvoiceInput{
		ClientID:  r.ClientID,
		ProjectID: r.ProjectID,
		Date:      r.Date,
		DueDate:   r.DueDate,
		Amount:    r.Amount,
		TaxRate:   r.TaxRate,
		Discount:  r.Discount,
		Notes:     r.Notes,
	}
}

// CreateInvoice handles the creation of a new invoice.
// @Summary     Create an invoice
// @Description Create a new invoice; the invoice number is generated and immutable
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body InvoiceRequest true "Invoice details"
// @Success     201 {object} models.Invoice "Invoice created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client or project not found"
// @Failure     409 {object} ErrorResponse "Invoice number assigned concurrently, retry"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INVOICE", "invoice", invoice.ID, c.ClientIP(),
		map[string]interface{}{"invoice_number": invoice.InvoiceNumber, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

// GetInvoices handles listing invoices.
// @Summary     Get invoices
// @Description Get a paginated list of invoices
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status     query string false "Filter by status"
// @Param       client_id  query int    false "Filter by client"
// @Param       project_id query int    false "Filter by project"
// @Param       from       query string false "Invoices dated on or after (YYYY-MM-DD)"
// @Param       to         query string false "Invoices dated on or before (YYYY-MM-DD)"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Invoice] "Paginated invoices"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices [get]
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.InvoiceFilter
	if v := c.Query("status"); v != "" {
		status := models.InvoiceStatus(v)
		filter.Status = &status
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

	result, err := h.invoiceService.ListInvoices(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInvoice handles retrieving a specific invoice.
// @Summary     Get invoice by ID
// @Description Get a specific invoice by ID
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Success     200 {object} models.Invoice "Invoice details"
// @Failure     400 {object} ErrorResponse "Invalid invoice ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoice, err := h.invoiceService.GetInvoiceByID(invoiceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// UpdateInvoice handles updating an existing invoice.
// @Summary     Update invoice
// @Description Update an existing invoice; the invoice number is never changed
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Invoice ID"
// @Param       request body InvoiceRequest true "Updated invoice details"
// @Success     200 {object} models.Invoice "Updated invoice"
// @Failure     400 {object} ErrorResponse "Invalid input or invoice ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     409 {object} ErrorResponse "Invoice is in a terminal state"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(invoiceID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_INVOICE", "invoice", invoiceID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// MarkInvoiceSent handles moving a draft invoice to sent.
// @Summary     Mark invoice as sent
// @Description Move a draft invoice to sent
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Success     200 {object} models.Invoice "Updated invoice"
// @Failure     400 {object} ErrorResponse "Invalid invoice ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     409 {object} ErrorResponse "Invoice is not a draft"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id}/mark-sent [post]
func (h *InvoiceHandler) MarkInvoiceSent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoice, err := h.invoiceService.MarkAsSent(invoiceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "MARK_INVOICE_SENT", "invoice", invoiceID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// MarkInvoicePaid handles settling an invoice in full.
// @Summary     Mark invoice as paid
// @Description Settle an invoice in full, creating the matching income record atomically
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int             true  "Invoice ID"
// @Param       request body MarkPaidRequest false "Payment method (defaults to bank_transfer)"
// @Success     200 {object} models.Invoice "Settled invoice with the created income"
// @Failure     400 {object} ErrorResponse "Invalid invoice ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     409 {object} ErrorResponse "Invoice already paid or in a terminal state"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id}/mark-paid [post]
func (h *InvoiceHandler) MarkInvoicePaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	invoice, income, err := h.invoiceService.MarkAsPaid(invoiceID, userID, models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "MARK_INVOICE_PAID", "invoice", invoiceID, c.ClientIP(),
		map[string]interface{}{"income_id": income.ID, "paid_amount": invoice.PaidAmount})

	c.JSON(http.StatusOK, gin.H{"invoice": invoice, "income": income})
}

// RecordPayment handles applying a payment against an invoice balance.
// @Summary     Record a payment
// @Description Apply a payment against the invoice balance; flips to paid when covered
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Invoice ID"
// @Param       request body PartialPaymentRequest true "Payment details"
// @Success     200 {object} models.Invoice "Updated invoice"
// @Failure     400 {object} ErrorResponse "Invalid input or invoice ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     409 {object} ErrorResponse "Invoice already paid or in a terminal state"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PartialPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.invoiceService.RecordPartialPayment(
		invoiceID, req.Amount, models.PaymentMethod(req.PaymentMethod), req.PaymentReference,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RECORD_INVOICE_PAYMENT", "invoice", invoiceID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "status": invoice.Status})

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// CancelInvoice handles cancelling an invoice.
// @Summary     Cancel invoice
// @Description Cancel an invoice; allowed from any non-terminal state
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Invoice ID"
// @Success     200 {object} models.Invoice "Cancelled invoice"
// @Failure     400 {object} ErrorResponse "Invalid invoice ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     409 {object} ErrorResponse "Invoice is in a terminal state"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/{id}/cancel [post]
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoiceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(invoiceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CANCEL_INVOICE", "invoice", invoiceID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// GetOverdueInvoices handles listing overdue invoices.
// @Summary     Get overdue invoices
// @Description Get invoices past their due date that are not paid, cancelled or refunded
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Invoice "Overdue invoices, most overdue first"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /invoices/overdue [get]
func (h *InvoiceHandler) GetOverdueInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.GetOverdueInvoices()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}
