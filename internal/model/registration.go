package model

import "time"

// RegistrationStatus is the lifecycle state of a registration row.
type RegistrationStatus string

const (
	StatusActive      RegistrationStatus = "active"
	StatusCancelled   RegistrationStatus = "cancelled"
	StatusRescheduled RegistrationStatus = "rescheduled"
)

// Registration is a student's booking for an exam session. Rows are never
// hard-deleted; cancellation flips the status. A reschedule moves the exam
// reference in place, keeping the id and confirmation code.
type Registration struct {
	ID               int64              `json:"id"`
	ConfirmationCode string             `json:"confirmation_code"`
	ExamID           int64              `json:"exam_id"`
	StudentID        int64              `json:"student_id"`
	Status           RegistrationStatus `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
}

// Appointment is a student-facing view of one of their registrations joined
// with the exam session and location.
type Appointment struct {
	RegistrationID   int64              `json:"registration_id"`
	ConfirmationCode string             `json:"confirmation_code"`
	ExamID           int64              `json:"exam_id"`
	ExamType         string             `json:"exam_type"`
	ExamDate         time.Time          `json:"exam_date"`
	ExamTime         string             `json:"exam_time"`
	LocationName     string             `json:"location_name"`
	Status           RegistrationStatus `json:"status"`
}

// LogEntry is a faculty-facing view of a registration joined with the exam
// and the student, as shown on the print log and search pages.
type LogEntry struct {
	ExamID       int64              `json:"exam_id"`
	ExamType     string             `json:"exam_type"`
	ExamDate     time.Time          `json:"exam_date"`
	ExamTime     string             `json:"exam_time"`
	LocationName string             `json:"location_name"`
	FirstName    string             `json:"first_name"`
	LastName     string             `json:"last_name"`
	Status       RegistrationStatus `json:"status"`
}
