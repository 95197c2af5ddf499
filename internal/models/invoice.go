package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// InvoiceStatus represents the billing lifecycle state of an invoice.
// Transitions are one-directional: draft -> sent -> partially_paid -> paid,
// with cancelled reachable from any non-terminal state. paid, cancelled and
// refunded are terminal.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
	InvoiceStatusRefunded      InvoiceStatus = "refunded"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled || s == InvoiceStatusRefunded
}

const invoiceNumberPrefix = "INV"

// Invoice represents a billing document requesting payment from a client
// for a project. Monetary fields are minor units.
type Invoice struct {
	Base
	InvoiceNumber string `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"`

	ClientID  uint `gorm:"not null;index" json:"client_id"`
	ProjectID uint `gorm:"not null;index" json:"project_id"`

	Date    time.Time `gorm:"not null" json:"date"`
	DueDate time.Time `gorm:"not null" json:"due_date"`

	Amount     int64         `gorm:"type:bigint;not null" json:"amount"`
	PaidAmount int64         `gorm:"type:bigint;not null;default:0" json:"paid_amount"`
	TaxRate    float64       `gorm:"not null;default:0" json:"tax_rate"`
	TaxAmount  int64         `gorm:"type:bigint;not null;default:0" json:"tax_amount"`
	Discount   int64         `gorm:"type:bigint;not null;default:0" json:"discount"`
	Status     InvoiceStatus `gorm:"size:20;not null;default:'draft';index" json:"status"`

	Notes string `json:"notes,omitempty"`

	// Relationships
	Client  Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Project Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Incomes []Income `gorm:"foreignKey:InvoiceID" json:"incomes,omitempty"`
}

// NextInvoiceNumber produces the next number in the INV-<yyyymm>-<seq4>
// sequence for the month of at. It reads the lexicographic maximum of the
// numbers already assigned under the month prefix, which is only correct
// because sequences are zero-padded to four digits. Two transactions reading
// the same maximum before either commits will generate the same number; the
// unique index on invoice_number is the sole backstop for that race, so the
// second writer fails with a uniqueness violation instead of corrupting data.
func NextInvoiceNumber(tx *gorm.DB, at time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", invoiceNumberPrefix, at.Format("200601"))

	// Unscoped: numbers of soft-deleted invoices are never reused.
	var lastNumber string
	err := tx.Unscoped().Model(&Invoice{}).
		Select("invoice_number").
		Where("invoice_number LIKE ?", prefix+"%").
		Order("invoice_number DESC").
		Limit(1).
		Scan(&lastNumber).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if lastNumber != "" {
		last, err := strconv.Atoi(lastNumber[strings.LastIndex(lastNumber, "-")+1:])
		if err != nil {
			return "", fmt.Errorf("malformed invoice number %q: %w", lastNumber, err)
		}
		seq = last + 1
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// BeforeCreate assigns the invoice number when one was not supplied. Running
// inside the creating transaction keeps generation and insert atomic.
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.InvoiceNumber != "" {
		return nil
	}
	number, err := NextInvoiceNumber(tx, time.Now().UTC())
	if err != nil {
		return err
	}
	i.InvoiceNumber = number
	return nil
}

// BeforeSave recomputes the tax amount from the current amount and rate.
func (i *Invoice) BeforeSave(tx *gorm.DB) error {
	i.TaxAmount = taxFor(i.Amount, i.TaxRate)
	return nil
}

// TotalAmount returns amount plus tax minus discount.
func (i *Invoice) TotalAmount() int64 {
	return i.Amount + i.TaxAmount - i.Discount
}

// BalanceDue returns the amount still owed on the invoice.
func (i *Invoice) BalanceDue() int64 {
	return i.TotalAmount() - i.PaidAmount
}

// IsOverdue reports whether the invoice passed its due date without reaching
// a terminal state.
func (i *Invoice) IsOverdue() bool {
	return !i.Status.IsTerminal() && i.DueDate.Before(Today())
}

// DaysOverdue returns the number of days past due, or 0 when not overdue.
func (i *Invoice) DaysOverdue() int {
	if !i.IsOverdue() {
		return 0
	}
	return int(Today().Sub(i.DueDate).Hours() / 24)
}
