// Package service implements business logic between the HTTP handlers and
// the repository layer. RegistrationService is the single owner of the
// booking invariants; no other code writes registration rows.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/csn-group4/exam-registration/internal/model"
	"github.com/csn-group4/exam-registration/internal/repository"
)

// MaxActiveRegistrations is the per-student cap on concurrently active
// registrations.
const MaxActiveRegistrations = 3

// Ledger is the registration store the controller drives. InTx runs the
// callback inside one transaction with row-level locking; the remaining
// methods are lock-free reads for display.
type Ledger interface {
	InTx(ctx context.Context, fn func(tx repository.LedgerTx) error) error
	AvailabilitySnapshot(ctx context.Context) ([]model.ExamAvailability, error)
	StudentAppointments(ctx context.Context, studentID int64) ([]model.Appointment, error)
	GetRegistration(ctx context.Context, registrationID int64) (*model.Registration, error)
	AllAppointments(ctx context.Context) ([]model.LogEntry, error)
	SearchAppointments(ctx context.Context, term string) ([]model.LogEntry, error)
}

// RegistrationService enforces the booking invariants and performs the
// register, cancel, and reschedule operations atomically.
type RegistrationService struct {
	ledger Ledger
	codes  CodeGenerator
	logger *zap.Logger
}

// NewRegistrationService constructs a RegistrationService with its
// dependencies.
func NewRegistrationService(ledger Ledger, codes CodeGenerator, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{ledger: ledger, codes: codes, logger: logger}
}

// Register books a seat for the student on the given exam session.
//
// All four precondition checks and the insert run in one transaction that
// holds the exam row lock and the student's user row lock, so two
// concurrent attempts cannot both pass a stale capacity or limit check.
// The capacity count is re-read under the same lock used for the insert.
func (s *RegistrationService) Register(ctx context.Context, studentID, examID int64) (*model.Registration, error) {
	if studentID <= 0 || examID <= 0 {
		return nil, model.ErrInvalidInput
	}

	var reg *model.Registration
	err := s.ledger.InTx(ctx, func(tx repository.LedgerTx) error {
		exam, err := tx.GetExamForUpdate(ctx, examID)
		if err != nil {
			return err
		}

		// Serialize registers by the same student, even across different
		// exams; the limit count below is only stable behind this lock.
		if err := tx.LockStudent(ctx, studentID); err != nil {
			return err
		}
		active, err := tx.CountActiveForStudent(ctx, studentID)
		if err != nil {
			return err
		}
		if active >= MaxActiveRegistrations {
			return model.ErrLimitExceeded
		}

		dup, err := tx.HasActive(ctx, studentID, examID)
		if err != nil {
			return err
		}
		if dup {
			return model.ErrDuplicateRegistration
		}

		booked, err := tx.CountActive(ctx, examID)
		if err != nil {
			return err
		}
		if booked >= exam.Capacity {
			return model.ErrCapacityExceeded
		}

		code, err := s.codes.Generate()
		if err != nil {
			return err
		}
		reg, err = tx.InsertRegistration(ctx, studentID, examID, code)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("registration created",
		zap.Int64("registration_id", reg.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("exam_id", examID),
		zap.String("confirmation_code", reg.ConfirmationCode))
	return reg, nil
}

// Cancel flips the student's active registration for the exam to cancelled
// and returns the number of rows changed. Cancelling an already-cancelled
// or never-booked exam is a no-op with changed == 0, not an error.
func (s *RegistrationService) Cancel(ctx context.Context, studentID, examID int64) (int64, error) {
	if studentID <= 0 || examID <= 0 {
		return 0, model.ErrInvalidInput
	}

	var changed int64
	err := s.ledger.InTx(ctx, func(tx repository.LedgerTx) error {
		var err error
		changed, err = tx.CancelActive(ctx, studentID, examID)
		return err
	})
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		s.logger.Info("registration cancelled",
			zap.Int64("student_id", studentID),
			zap.Int64("exam_id", examID))
	}
	return changed, nil
}

// Reschedule moves the student's active registration to another exam
// session in place and returns the updated row: same registration id, same
// confirmation code, status stays active, no new row.
//
// Both exam rows are locked in ascending id order regardless of call
// direction, so two reschedules swapping exams cannot deadlock.
func (s *RegistrationService) Reschedule(ctx context.Context, studentID, registrationID, newExamID int64) (*model.Registration, error) {
	if studentID <= 0 || registrationID <= 0 || newExamID <= 0 {
		return nil, model.ErrInvalidInput
	}

	var moved *model.Registration
	err := s.ledger.InTx(ctx, func(tx repository.LedgerTx) error {
		reg, err := tx.GetActiveRegistrationForUpdate(ctx, registrationID)
		if err != nil {
			return err
		}
		if reg.StudentID != studentID {
			// Do not reveal other students' registration ids.
			return model.ErrNotFound
		}
		if reg.ExamID == newExamID {
			moved = reg
			return nil
		}

		first, second := reg.ExamID, newExamID
		if first > second {
			first, second = second, first
		}
		var newExam *model.ExamSession
		for _, id := range []int64{first, second} {
			exam, err := tx.GetExamForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if id == newExamID {
				newExam = exam
			}
		}

		booked, err := tx.CountActive(ctx, newExamID)
		if err != nil {
			return err
		}
		if booked >= newExam.Capacity {
			return model.ErrCapacityExceeded
		}

		if err := tx.UpdateExamReference(ctx, registrationID, newExamID); err != nil {
			return err
		}
		reg.ExamID = newExamID
		moved = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("registration rescheduled",
		zap.Int64("registration_id", registrationID),
		zap.Int64("student_id", studentID),
		zap.Int64("new_exam_id", newExamID))
	return moved, nil
}

// Availability returns the lock-free per-exam seat snapshot. Eventually
// consistent; never used to authorize a write.
func (s *RegistrationService) Availability(ctx context.Context) ([]model.ExamAvailability, error) {
	return s.ledger.AvailabilitySnapshot(ctx)
}

// Appointments returns the student's registrations with exam details.
func (s *RegistrationService) Appointments(ctx context.Context, studentID int64) ([]model.Appointment, error) {
	if studentID <= 0 {
		return nil, model.ErrInvalidInput
	}
	return s.ledger.StudentAppointments(ctx, studentID)
}

// Confirmation returns a registration by id for the confirmation page. A
// registration belonging to another student reads as not found.
func (s *RegistrationService) Confirmation(ctx context.Context, studentID, registrationID int64) (*model.Registration, error) {
	if studentID <= 0 || registrationID <= 0 {
		return nil, model.ErrInvalidInput
	}
	reg, err := s.ledger.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.StudentID != studentID {
		return nil, model.ErrNotFound
	}
	return reg, nil
}

// ExamLog returns every registration with exam and student details for the
// faculty print log.
func (s *RegistrationService) ExamLog(ctx context.Context) ([]model.LogEntry, error) {
	return s.ledger.AllAppointments(ctx)
}

// SearchLog filters the exam log by student name, exam type, or exam id.
func (s *RegistrationService) SearchLog(ctx context.Context, term string) ([]model.LogEntry, error) {
	if term == "" {
		return nil, model.ErrInvalidInput
	}
	return s.ledger.SearchAppointments(ctx, term)
}
