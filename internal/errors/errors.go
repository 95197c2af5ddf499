// Package errors provides custom error types for the Praxis API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Client errors.
var (
	ErrClientNotFound       = &AppError{Code: "CLIENT_NOT_FOUND", Message: "Client not found", StatusCode: http.StatusNotFound}
	ErrDuplicateClientEmail = &AppError{Code: "DUPLICATE_CLIENT_EMAIL", Message: "A client with this email already exists", StatusCode: http.StatusConflict}
)

// Project errors.
var (
	ErrProjectNotFound      = &AppError{Code: "PROJECT_NOT_FOUND", Message: "Project not found", StatusCode: http.StatusNotFound}
	ErrDuplicateProjectCode = &AppError{Code: "DUPLICATE_PROJECT_CODE", Message: "A project with this code already exists", StatusCode: http.StatusConflict}
	ErrInvalidDateRange     = &AppError{Code: "INVALID_DATE_RANGE", Message: "End date cannot be before start date", StatusCode: http.StatusBadRequest}
)

// Task errors.
var (
	ErrTaskNotFound = &AppError{Code: "TASK_NOT_FOUND", Message: "Task not found", StatusCode: http.StatusNotFound}
)

// Invoice errors. DUPLICATE_INVOICE_NUMBER means two writers generated the
// same number for a month; the request is safe to retry, which regenerates
// the sequence from the committed maximum.
var (
	ErrInvoiceNotFound         = &AppError{Code: "INVOICE_NOT_FOUND", Message: "Invoice not found", StatusCode: http.StatusNotFound}
	ErrInvoiceAlreadyPaid      = &AppError{Code: "INVOICE_ALREADY_PAID", Message: "Invoice is already paid", StatusCode: http.StatusConflict}
	ErrInvalidStatusTransition = &AppError{Code: "INVALID_STATUS_TRANSITION", Message: "Invoice status transition is not allowed", StatusCode: http.StatusConflict}
	ErrDuplicateInvoiceNumber  = &AppError{Code: "DUPLICATE_INVOICE_NUMBER", Message: "Invoice number was assigned concurrently, retry the request", StatusCode: http.StatusConflict}
)

// Income errors.
var (
	ErrIncomeNotFound = &AppError{Code: "INCOME_NOT_FOUND", Message: "Income record not found", StatusCode: http.StatusNotFound}
)

// Expense errors.
var (
	ErrExpenseNotFound    = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrExpenseNotPending  = &AppError{Code: "EXPENSE_NOT_PENDING", Message: "Expense has already been reviewed", StatusCode: http.StatusConflict}
	ErrExpenseNotApproved = &AppError{Code: "EXPENSE_NOT_APPROVED", Message: "Only approved expenses can be marked as paid", StatusCode: http.StatusConflict}
)
