package models

// UserRole represents the role of a user within the organization
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleManager  UserRole = "manager"
	UserRoleEmployee UserRole = "employee"
)

// User represents the user model in the database
type User struct {
	Base
	Email     string   `gorm:"uniqueIndex;not null" json:"email"`
	Password  string   `gorm:"not null" json:"-"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      UserRole `gorm:"size:20;not null;default:'employee'" json:"role"`
	IsActive  bool     `gorm:"default:true" json:"is_active"`

	// Relationships
	Tasks             []Task    `gorm:"foreignKey:AssignedToID" json:"tasks,omitempty"`
	ManagedProjects   []Project `gorm:"foreignKey:ManagerID" json:"managed_projects,omitempty"`
	SubmittedExpenses []Expense `gorm:"foreignKey:SubmittedByID" json:"submitted_expenses,omitempty"`
}
