package models

import "strings"

// ClientStatus represents the lifecycle status of a client relationship
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusProspect ClientStatus = "prospect"
	ClientStatusFormer   ClientStatus = "former"
)

// Client represents a business contact that owns projects, invoices and incomes
type Client struct {
	Base
	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"uniqueIndex;not null" json:"email"`
	Phone   string `gorm:"size:20" json:"phone,omitempty"`
	Company string `gorm:"size:100" json:"company,omitempty"`

	// Address
	Address    string `gorm:"size:255" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	State      string `gorm:"size:100" json:"state,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`
	Country    string `gorm:"size:100" json:"country,omitempty"`

	// Business details
	TaxNumber string       `gorm:"size:50" json:"tax_number,omitempty"`
	Industry  string       `gorm:"size:100" json:"industry,omitempty"`
	Status    ClientStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	Notes     string       `json:"notes,omitempty"`

	// Billing
	BillingEmail string `json:"billing_email,omitempty"`
	PaymentTerms int    `gorm:"not null;default:30" json:"payment_terms"` // days

	// Relationships
	Projects []Project `gorm:"foreignKey:ClientID" json:"projects,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:ClientID" json:"invoices,omitempty"`
	Incomes  []Income  `gorm:"foreignKey:ClientID" json:"incomes,omitempty"`
}

// FullAddress returns the formatted one-line postal address, skipping empty parts.
func (c *Client) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{c.Address, c.City, c.State, c.PostalCode, c.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
