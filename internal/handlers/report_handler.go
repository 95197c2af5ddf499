package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "praxis/internal/errors"
	"praxis/internal/services"
)

// ReportHandler handles reporting requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetIncomeReport handles producing an income report over a period.
// @Summary     Get income report
// @Description Aggregate received income with client and type breakdowns plus a monthly trend
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from query string true "Period start (YYYY-MM-DD)"
// @Param       to   query string true "Period end (YYYY-MM-DD)"
// @Success     200 {object} services.IncomeReport "Income report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/income [get]
func (h *ReportHandler) GetIncomeReport(c *gin.Context) {
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

	report, err := h.reportService.GetIncomeReport(*from, *to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// GetExpenseReport handles producing an expense report over a period.
// @Summary     Get expense report
// @Description Aggregate expenses with a category breakdown plus a monthly trend
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from query string true "Period start (YYYY-MM-DD)"
// @Param       to   query string true "Period end (YYYY-MM-DD)"
// @Success     200 {object} services.ExpenseReport "Expense report"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/expenses [get]
func (h *ReportHandler) GetExpenseReport(c *gin.Context) {
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

	report, err := h.reportService.GetExpenseReport(*from, *to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
