package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ProjectStatus represents the delivery status of a project
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// Priority is shared by projects and tasks
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Project represents client work with a budget, schedule and task list
type Project struct {
	Base
	Name        string        `gorm:"size:100;not null" json:"name"`
	Code        string        `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `gorm:"size:20;not null;default:'planning'" json:"status"`
	Priority    Priority      `gorm:"size:20;not null;default:'medium'" json:"priority"`

	ClientID  uint  `gorm:"not null;index" json:"client_id"`
	ManagerID *uint `json:"manager_id,omitempty"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	// Financials in minor units
	Budget     int64 `gorm:"type:bigint;not null" json:"budget"`
	ActualCost int64 `gorm:"type:bigint;not null;default:0" json:"actual_cost"`
	HourlyRate int64 `gorm:"type:bigint" json:"hourly_rate,omitempty"`

	Notes string `json:"notes,omitempty"`

	// Relationships
	Client      Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Manager     *User     `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	TeamMembers []User    `gorm:"many2many:project_members" json:"team_members,omitempty"`
	Tasks       []Task    `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Incomes     []Income  `gorm:"foreignKey:ProjectID" json:"incomes,omitempty"`
	Expenses    []Expense `gorm:"many2many:project_expenses" json:"expenses,omitempty"`
}

// BeforeCreate assigns a project code of the form P<year><seq3> when one was
// not supplied. The sequence is derived from the number of projects created in
// the current year; the unique index on code is the backstop for concurrent
// creates racing to the same sequence.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.Code != "" {
		return nil
	}

	year := time.Now().UTC().Year()
	yearStart := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)

	var count int64
	if err := tx.Unscoped().Model(&Project{}).
		Where("created_at >= ?", yearStart).
		Count(&count).Error; err != nil {
		return err
	}

	p.Code = fmt.Sprintf("P%d%03d", year, count+1)
	return nil
}

// IsOverdue reports whether the project passed its end date without completing.
func (p *Project) IsOverdue() bool {
	return p.Status != ProjectStatusCompleted &&
		p.Status != ProjectStatusCancelled &&
		p.EndDate.Before(Today())
}

// DurationDays returns the planned project duration in days.
func (p *Project) DurationDays() int {
	return int(p.EndDate.Sub(p.StartDate).Hours() / 24)
}
