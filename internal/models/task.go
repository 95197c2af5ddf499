package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus represents the workflow status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskType categorizes the kind of work a task represents
type TaskType string

const (
	TaskTypeFeature       TaskType = "feature"
	TaskTypeBug           TaskType = "bug"
	TaskTypeImprovement   TaskType = "improvement"
	TaskTypeMaintenance   TaskType = "maintenance"
	TaskTypeDocumentation TaskType = "documentation"
	TaskTypeOther         TaskType = "other"
)

// Task represents a unit of project work assigned to a user
type Task struct {
	Base
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Priority    Priority   `gorm:"size:20;not null;default:'medium'" json:"priority"`
	TaskType    TaskType   `gorm:"size:20;not null;default:'feature'" json:"task_type"`

	ProjectID    uint `gorm:"not null;index" json:"project_id"`
	AssignedToID uint `gorm:"not null;index" json:"assigned_to_id"`

	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Hours in hundredths (2.5h == 250)
	EstimatedHours int64 `gorm:"not null;default:0" json:"estimated_hours"`
	ActualHours    int64 `gorm:"not null;default:0" json:"actual_hours"`

	Notes string `json:"notes,omitempty"`

	// Relationships
	Project    Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo User    `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

// BeforeSave stamps the start and completion times the first time the task
// enters the corresponding status.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	now := time.Now().UTC()
	if t.Status == TaskStatusInProgress && t.StartedAt == nil {
		t.StartedAt = &now
	}
	if t.Status == TaskStatusCompleted && t.CompletedAt == nil {
		t.CompletedAt = &now
	}
	return nil
}

// IsOverdue reports whether an unfinished task passed its due date.
func (t *Task) IsOverdue() bool {
	return t.Status != TaskStatusCompleted &&
		t.Status != TaskStatusCancelled &&
		t.DueDate.Before(Today())
}

// TimeRemaining returns the estimated hours (in hundredths) still outstanding.
func (t *Task) TimeRemaining() int64 {
	if t.Status == TaskStatusCompleted {
		return 0
	}
	if remaining := t.EstimatedHours - t.ActualHours; remaining > 0 {
		return remaining
	}
	return 0
}
