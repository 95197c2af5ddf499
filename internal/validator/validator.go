// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("client_status", validateClientStatus)
		_ = v.RegisterValidation("project_status", validateProjectStatus)
		_ = v.RegisterValidation("priority", validatePriority)
		_ = v.RegisterValidation("task_status", validateTaskStatus)
		_ = v.RegisterValidation("task_type", validateTaskType)
		_ = v.RegisterValidation("invoice_status", validateInvoiceStatus)
		_ = v.RegisterValidation("income_status", validateIncomeStatus)
		_ = v.RegisterValidation("income_type", validateIncomeType)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
		_ = v.RegisterValidation("user_role", validateUserRole)
	}
}

func validateClientStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "active", "inactive", "prospect", "former":
		return true
	}
	return false
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "planning", "in_progress", "on_hold", "completed", "cancelled":
		return true
	}
	return false
}

func validatePriority(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "low", "medium", "high", "urgent":
		return true
	}
	return false
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "in_progress", "review", "completed", "blocked", "cancelled":
		return true
	}
	return false
}

func validateTaskType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "feature", "bug", "improvement", "maintenance", "documentation", "other":
		return true
	}
	return false
}

func validateInvoiceStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "sent", "partially_paid", "paid", "cancelled", "refunded":
		return true
	}
	return false
}

func validateIncomeStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "received", "failed", "refunded":
		return true
	}
	return false
}

func validateIncomeType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "project_payment", "retainer", "consultation", "maintenance", "other":
		return true
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "cheque", "bank_transfer", "credit_card", "paypal", "other":
		return true
	}
	return false
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "software", "travel", "salaries", "office", "marketing", "hardware", "other":
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "admin", "manager", "employee":
		return true
	}
	return false
}
