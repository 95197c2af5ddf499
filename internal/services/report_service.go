package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "praxis/internal/errors"
	"praxis/internal/models"
)

// reportService produces JSON reporting aggregates.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GetIncomeReport aggregates received income over [from, to] with breakdowns
// by client and income type plus a monthly trend series.
func (s *reportService) GetIncomeReport(from, to time.Time) (*IncomeReport, error) {
	if to.Before(from) {
		return nil, apperrors.ErrInvalidDateRange
	}

	var incomes []models.Income
	err := s.db.Preload("Client").
		Where("status = ? AND date >= ? AND date <= ?", models.IncomeStatusReceived, from, to).
		Find(&incomes).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &IncomeReport{
		From:     from,
		To:       to,
		ByClient: make(map[string]int64),
		ByType:   make(map[models.IncomeType]int64),
	}

	byMonth := make(map[string]int64)
	for _, income := range incomes {
		report.Total += income.Amount
		report.ByClient[income.Client.Name] += income.Amount
		report.ByType[income.IncomeType] += income.Amount
		byMonth[income.Date.Format("2006-01")] += income.Amount
	}
	report.MonthlyTrend = trendSeries(byMonth)

	return report, nil
}

// GetExpenseReport aggregates expenses over [from, to] with a category
// breakdown plus a monthly trend series. Rejected expenses are excluded.
func (s *reportService) GetExpenseReport(from, to time.Time) (*ExpenseReport, error) {
	if to.Before(from) {
		return nil, apperrors.ErrInvalidDateRange
	}

	var expenses []models.Expense
	err := s.db.
		Where("status <> ? AND date >= ? AND date <= ?", models.ExpenseStatusRejected, from, to).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &ExpenseReport{
		From:       from,
		To:         to,
		ByCategory: make(map[models.ExpenseCategory]int64),
	}

	byMonth := make(map[string]int64)
	for _, expense := range expenses {
		report.Total += expense.Amount
		report.ByCategory[expense.Category] += expense.Amount
		byMonth[expense.Date.Format("2006-01")] += expense.Amount
	}
	report.MonthlyTrend = trendSeries(byMonth)

	return report, nil
}

// trendSeries flattens a month->amount map into a chronologically sorted
// series. YYYY-MM keys sort lexicographically in date order.
func trendSeries(byMonth map[string]int64) []MonthlyAmount {
	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	series := make([]MonthlyAmount, 0, len(months))
	for _, month := range months {
		series = append(series, MonthlyAmount{Month: month, Amount: byMonth[month]})
	}
	return series
}
