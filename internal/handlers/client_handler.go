package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "praxis/internal/errors"
	"praxis/internal/models"
	"praxis/internal/pagination"
	"praxis/internal/services"
)

// ClientHandler handles client-related requests.
type ClientHandler struct {
	clientService services.ClientServicer
	auditService  services.AuditServicer
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService services.ClientServicer, auditService services.AuditServicer) *ClientHandler {
	return &ClientHandler{clientService: clientService, auditService: auditService}
}

// ClientRequest represents the request payload for creating or updating a client.
type ClientRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Email        string `json:"email" binding:"required,email,max=255"`
	Phone        string `json:"phone" binding:"max=20"`
	Company      string `json:"company" binding:"max=100"`
	Address      string `json:"address" binding:"max=255"`
	City         string `json:"city" binding:"max=100"`
	State        string `json:"state" binding:"max=100"`
	PostalCode   string `json:"postal_code" binding:"max=20"`
	Country      string `json:"country" binding:"max=100"`
	TaxNumber    string `json:"tax_number" binding:"max=50"`
	Industry     string `json:"industry" binding:"max=100"`
	Status       string `json:"status" binding:"omitempty,client_status"`
	Notes        string `json:"notes"`
	BillingEmail string `json:"billing_email" binding:"omitempty,email"`
	PaymentTerms int    `json:"payment_terms" binding:"omitempty,gt=0"`
}

// UpdateClientStatusRequest represents the request payload for a status change.
type UpdateClientStatusRequest struct {
	Status string `json:"status" binding:"required,client_status"`
}

func (r *ClientRequest) toInput() services.ClientInput {
	return services.ClientInput{
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Company:      r.Company,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		TaxNumber:    r.TaxNumber,
		Industry:     r.Industry,
		Status:       models.ClientStatus(r.Status),
		Notes:        r.Notes,
		BillingEmail: r.BillingEmail,
		PaymentTerms: r.PaymentTerms,
	}
}

// CreateClient handles the creation of a new client.
// @Summary     Create a client
// @Description Create a new client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ClientRequest true "Client details"
// @Success     201 {object} models.Client "Client created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Duplicate email"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CLIENT", "client", client.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "email": req.Email})

	c.JSON(http.StatusCreated, gin.H{"client": client})
}

// GetClients handles listing clients.
// @Summary     Get clients
// @Description Get a paginated list of clients
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (active/inactive/prospect/former)"
// @Param       industry  query string false "Filter by industry"
// @Param       search    query string false "Search in name, company and email"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Client] "Paginated clients"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /clients [get]
func (h *ClientHandler) GetClients(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.ClientFilter
	if v := c.Query("status"); v != "" {
		status := models.ClientStatus(v)
		filter.Status = &status
	}
	if v := c.Query("industry"); v != "" {
		filter.Industry = &v
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	result, err := h.clientService.ListClients(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetClient handles retrieving a specific client.
// @Summary     Get client by ID
// @Description Get a specific client by ID
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Client ID"
// @Success     200 {object} models.Client "Client details"
// @Failure     400 {object} ErrorResponse "Invalid client ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /clients/{id} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	client, err := h.clientService.GetClientByID(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": client})
}

// UpdateClient handles updating an existing client.
// @Summary     Update client
// @Description Update an existing client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int           true "Client ID"
// @Param       request body ClientRequest true "Updated client details"
// @Success     200 {object} models.Client "Updated client"
// @Failure     400 {object} ErrorResponse "Invalid input or client ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	client, err := h.clientService.UpdateClient(clientID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CLIENT", "client", clientID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"client": client})
}

// UpdateClientStatus handles changing a client's lifecycle status.
// @Summary     Update client status
// @Description Change the lifecycle status of a client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Client ID"
// @Param       request body UpdateClientStatusRequest true "New status"
// @Success     200 {object} models.Client "Updated client"
// @Failure     400 {object} ErrorResponse "Invalid input or client ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /clients/{id}/status [patch]
func (h *ClientHandler) UpdateClientStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateClientStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	client, err := h.clientService.UpdateStatus(clientID, models.ClientStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CLIENT_STATUS", "client", clientID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"client": client})
}

// DeleteClient handles deleting a client.
// @Summary     Delete client
// @Description Delete a client by ID (soft delete)
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Client ID"
// @Success     200 {object} MessageResponse "Client deleted"
// @Failure     400 {object} ErrorResponse "Invalid client ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.clientService.DeleteClient(clientID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CLIENT", "client", clientID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}

// GetClientFinancialSummary handles retrieving a client's financial summary.
// @Summary     Get client financial summary
// @Description Get revenue, outstanding invoices and project counts for a client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Client ID"
// @Success     200 {object} services.ClientFinancialSummary "Financial summary"
// @Failure     400 {object} ErrorResponse "Invalid client ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /clients/{id}/financial-summary [get]
func (h *ClientHandler) GetClientFinancialSummary(c *gin.Context) {
	clientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.clientService.GetFinancialSummary(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
