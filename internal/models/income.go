package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentMethod is how money changed hands, shared by incomes and expenses
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodOther        PaymentMethod = "other"
)

// IncomeStatus represents whether expected funds actually arrived
type IncomeStatus string

const (
	IncomeStatusPending  IncomeStatus = "pending"
	IncomeStatusReceived IncomeStatus = "received"
	IncomeStatusFailed   IncomeStatus = "failed"
	IncomeStatusRefunded IncomeStatus = "refunded"
)

// IncomeType categorizes the source of received funds
type IncomeType string

const (
	IncomeTypeProjectPayment IncomeType = "project_payment"
	IncomeTypeRetainer       IncomeType = "retainer"
	IncomeTypeConsultation   IncomeType = "consultation"
	IncomeTypeMaintenance    IncomeType = "maintenance"
	IncomeTypeOther          IncomeType = "other"
)

// Income represents a record of funds received (or expected) from a client,
// optionally tied back to the invoice that produced it. The invoice reference
// is nullable: an income survives as an independent record if its invoice is
// later deleted.
type Income struct {
	Base
	Amount int64 `gorm:"type:bigint;not null" json:"amount"`

	Date         time.Time  `gorm:"not null;index" json:"date"`
	ExpectedDate *time.Time `json:"expected_date,omitempty"`
	ReceivedDate *time.Time `json:"received_date,omitempty"`

	ClientID  uint  `gorm:"not null;index" json:"client_id"`
	ProjectID uint  `gorm:"not null;index" json:"project_id"`
	InvoiceID *uint `gorm:"index" json:"invoice_id,omitempty"`

	PaymentMethod    PaymentMethod `gorm:"size:50;not null;default:'bank_transfer'" json:"payment_method"`
	PaymentReference string        `gorm:"size:100" json:"payment_reference,omitempty"`
	Status           IncomeStatus  `gorm:"size:20;not null;default:'pending';index" json:"status"`
	IncomeType       IncomeType    `gorm:"size:50;not null;index" json:"income_type"`

	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`

	TaxRate   float64 `gorm:"not null;default:0" json:"tax_rate"`
	TaxAmount int64   `gorm:"type:bigint;not null;default:0" json:"tax_amount"`

	// Relationships
	Client  Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Project Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Invoice *Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}

// BeforeSave recomputes the tax amount from the current amount and rate.
func (i *Income) BeforeSave(tx *gorm.DB) error {
	i.TaxAmount = taxFor(i.Amount, i.TaxRate)
	return nil
}

// TotalAmount returns the amount including tax.
func (i *Income) TotalAmount() int64 {
	return i.Amount + i.TaxAmount
}

// IsOverdue reports whether a pending payment passed its expected date.
func (i *Income) IsOverdue() bool {
	return i.Status == IncomeStatusPending &&
		i.ExpectedDate != nil &&
		i.ExpectedDate.Before(Today())
}

// DaysOverdue returns the number of days a pending payment is late, or 0.
func (i *Income) DaysOverdue() int {
	if !i.IsOverdue() {
		return 0
	}
	return int(Today().Sub(*i.ExpectedDate).Hours() / 24)
}
