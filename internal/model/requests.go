package model

// Request payloads decoded by the HTTP layer. Validation tags are enforced
// with go-playground/validator before any service call.

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Role      string `json:"role" validate:"required,oneof=student faculty"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,max=150"`
	Phone     string `json:"phone" validate:"required,max=20"`

	// Student-only
	NSHEID  string `json:"nshe_id" validate:"omitempty,len=10,numeric"`
	MajorID int64  `json:"major_id" validate:"omitempty,gt=0"`

	// Faculty-only
	EmployeeID   string `json:"employee_id" validate:"omitempty,max=15"`
	DepartmentID int64  `json:"department_id" validate:"omitempty,gt=0"`
	Password     string `json:"password" validate:"omitempty,min=8,max=72"`
}

// LoginRequest is the payload for obtaining a bearer token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateExamRequest is the payload for adding an exam session to the catalog.
type CreateExamRequest struct {
	ExamType   string `json:"exam_type" validate:"required,max=100"`
	ExamDate   string `json:"exam_date" validate:"required,datetime=2006-01-02"`
	ExamTime   string `json:"exam_time" validate:"required,max=20"`
	LocationID int64  `json:"location_id" validate:"required,gt=0"`
	Capacity   int    `json:"capacity" validate:"required,gt=0,lte=500"`
}

// CreateLocationRequest is the payload for adding a testing-center location.
type CreateLocationRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Room string `json:"room" validate:"required,max=50"`
}

// CreateDepartmentRequest is the payload for adding a department.
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateMajorRequest is the payload for adding a major to a department.
type CreateMajorRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

// RescheduleRequest is the payload for moving a registration to another
// exam session.
type RescheduleRequest struct {
	NewExamID int64 `json:"new_exam_id" validate:"required,gt=0"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
