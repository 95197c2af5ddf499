package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ExpenseCategory buckets company spending for reporting
type ExpenseCategory string

const (
	ExpenseCategorySoftware  ExpenseCategory = "software"
	ExpenseCategoryTravel    ExpenseCategory = "travel"
	ExpenseCategorySalaries  ExpenseCategory = "salaries"
	ExpenseCategoryOffice    ExpenseCategory = "office"
	ExpenseCategoryMarketing ExpenseCategory = "marketing"
	ExpenseCategoryHardware  ExpenseCategory = "hardware"
	ExpenseCategoryOther     ExpenseCategory = "other"
)

// ExpenseStatus represents the approval workflow state of an expense
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "pending"
	ExpenseStatusApproved ExpenseStatus = "approved"
	ExpenseStatusRejected ExpenseStatus = "rejected"
	ExpenseStatusPaid     ExpenseStatus = "paid"
)

// Expense represents company spending submitted for approval. Expenses may be
// attached to any number of projects and contribute to their cost rollups.
type Expense struct {
	Base
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `json:"description,omitempty"`
	Amount      int64  `gorm:"type:bigint;not null" json:"amount"`
	TaxAmount   int64  `gorm:"type:bigint;not null;default:0" json:"tax_amount"`

	Category ExpenseCategory `gorm:"size:100;not null;index" json:"category"`

	PaymentMethod    PaymentMethod `gorm:"size:50;not null;default:'bank_transfer'" json:"payment_method"`
	PaymentReference string        `gorm:"size:100" json:"payment_reference,omitempty"`

	Date     time.Time  `gorm:"not null;index" json:"date"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	PaidDate *time.Time `json:"paid_date,omitempty"`

	Vendor     string `gorm:"size:200" json:"vendor,omitempty"`
	ReceiptURL string `json:"receipt_url,omitempty"`

	Status        ExpenseStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	SubmittedByID uint          `gorm:"not null" json:"submitted_by_id"`
	ApprovedByID  *uint         `json:"approved_by_id,omitempty"`

	// Recurring spend (subscriptions, salaries)
	IsRecurring      bool       `gorm:"default:false" json:"is_recurring"`
	RecurringEndDate *time.Time `json:"recurring_end_date,omitempty"`

	Notes string `json:"notes,omitempty"`

	// Relationships
	SubmittedBy User      `gorm:"foreignKey:SubmittedByID" json:"submitted_by,omitempty"`
	ApprovedBy  *User     `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	Projects    []Project `gorm:"many2many:project_expenses" json:"projects,omitempty"`
}

// BeforeSave fills in a default title derived from the category and date.
func (e *Expense) BeforeSave(tx *gorm.DB) error {
	if e.Title == "" {
		e.Title = fmt.Sprintf("%s expense - %s", e.Category, e.Date.Format("2006-01-02"))
	}
	return nil
}

// TotalAmount returns the amount including tax.
func (e *Expense) TotalAmount() int64 {
	return e.Amount + e.TaxAmount
}

// IsOverdue reports whether an unpaid expense passed its due date.
func (e *Expense) IsOverdue() bool {
	return e.DueDate != nil && e.PaidDate == nil && e.DueDate.Before(Today())
}
