package model

import "time"

// Role of an account. Students book exams; faculty manage the catalog and
// view the registration log.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

// User is an account. Student-only and faculty-only fields are nullable.
type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`

	// Student-only
	NSHEID  *string `json:"nshe_id,omitempty"`
	MajorID *int64  `json:"major_id,omitempty"`

	// Faculty-only
	EmployeeID   *string `json:"employee_id,omitempty"`
	DepartmentID *int64  `json:"department_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
