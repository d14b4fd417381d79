// Package repository implements all database access for the exam
// registration system. It uses pgx directly (no ORM) for transparency over
// the locking behavior the registration invariants depend on.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csn-group4/exam-registration/internal/model"
)

// LedgerTx is the unit of work the registration controller drives. Every
// method runs inside the same database transaction, so the row locks taken
// by GetExamForUpdate and the locked counts hold until commit or rollback.
type LedgerTx interface {
	// GetExamForUpdate locks the exam row with SELECT ... FOR UPDATE.
	// Concurrent register/reschedule attempts on the same exam serialize
	// on this lock, which is what makes the capacity check race-safe.
	GetExamForUpdate(ctx context.Context, examID int64) (*model.ExamSession, error)

	// CountActive returns the live number of active registrations for an
	// exam. Call it only after GetExamForUpdate on the same exam.
	CountActive(ctx context.Context, examID int64) (int, error)

	// LockStudent locks the student's user row with SELECT ... FOR UPDATE.
	// Concurrent registers by the same student serialize on this lock even
	// when they target different exams, which is what makes the per-student
	// cap check race-safe.
	LockStudent(ctx context.Context, studentID int64) error

	// CountActiveForStudent returns the live size of the student's active
	// registration set. Call it only after LockStudent on the same student.
	CountActiveForStudent(ctx context.Context, studentID int64) (int, error)

	// HasActive reports whether the student already holds an active
	// registration for the exam.
	HasActive(ctx context.Context, studentID, examID int64) (bool, error)

	// InsertRegistration creates an active registration with the given
	// confirmation code and returns the stored row.
	InsertRegistration(ctx context.Context, studentID, examID int64, code string) (*model.Registration, error)

	// GetActiveRegistrationForUpdate locks an active registration row by id.
	GetActiveRegistrationForUpdate(ctx context.Context, registrationID int64) (*model.Registration, error)

	// CancelActive flips the matching active registration to cancelled and
	// returns the number of rows changed (0 when nothing matched).
	CancelActive(ctx context.Context, studentID, examID int64) (int64, error)

	// UpdateStatus sets the status of a registration row.
	UpdateStatus(ctx context.Context, registrationID int64, status model.RegistrationStatus) error

	// UpdateExamReference moves a registration to another exam session in
	// place. The registration id and confirmation code do not change.
	UpdateExamReference(ctx context.Context, registrationID, newExamID int64) error
}

// LedgerRepository persists registrations and drives the transactional
// scopes the controller's invariant checks run in.
type LedgerRepository struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewLedgerRepository constructs a LedgerRepository. lockTimeout bounds how
// long a transaction waits on a contended exam row before the attempt is
// reported as transient.
func NewLedgerRepository(pool *pgxpool.Pool, lockTimeout time.Duration) *LedgerRepository {
	return &LedgerRepository{pool: pool, lockTimeout: lockTimeout}
}

// InTx runs fn inside a single transaction with a bounded lock timeout.
// The transaction is resolved on every exit path: commit on success,
// rollback on any error or panic. Storage-level failures are classified so
// lock timeouts, deadlocks, and connectivity errors surface as
// model.ErrTransient.
func (r *LedgerRepository) InTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() {
		// No-op after a successful commit.
		_ = tx.Rollback(ctx)
	}()

	timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, timeout); err != nil {
		return classify(fmt.Errorf("set lock timeout: %w", err))
	}

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		return classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// PostgreSQL error codes that mean "try again", not "you did something wrong".
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// classify maps retryable storage errors to model.ErrTransient and passes
// everything else through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %v", model.ErrTransient, err)
		case pgUniqueViolation:
			if pgErr.ConstraintName == "idx_registrations_active_pair" {
				return fmt.Errorf("%w: %v", model.ErrDuplicateRegistration, err)
			}
			// Confirmation-code collision; a retry draws a fresh code.
			return fmt.Errorf("%w: %v", model.ErrTransient, err)
		}
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", model.ErrTransient, err)
	}
	return err
}

// ledgerTx implements LedgerTx over an open pgx transaction.
type ledgerTx struct {
	tx pgx.Tx
}

func (t *ledgerTx) GetExamForUpdate(ctx context.Context, examID int64) (*model.ExamSession, error) {
	var e model.ExamSession
	err := t.tx.QueryRow(ctx,
		`SELECT id, exam_type, exam_date, exam_time, location_id, capacity, created_at
		 FROM exams
		 WHERE id = $1
		 FOR UPDATE`,
		examID,
	).Scan(&e.ID, &e.ExamType, &e.ExamDate, &e.ExamTime, &e.LocationID, &e.Capacity, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("lock exam row: %w", err)
	}
	return &e, nil
}

func (t *ledgerTx) CountActive(ctx context.Context, examID int64) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE exam_id = $1 AND status = 'active'`,
		examID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active registrations: %w", err)
	}
	return n, nil
}

func (t *ledgerTx) LockStudent(ctx context.Context, studentID int64) error {
	// Locking the registration rows themselves is not enough: a student
	// with no active rows locks nothing, and a waiter resumes with a
	// statement snapshot that predates the competitor's insert. The user
	// row is the stable parent every register for this student must pass.
	var id int64
	err := t.tx.QueryRow(ctx,
		`SELECT id FROM users WHERE id = $1 FOR UPDATE`,
		studentID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("lock student row: %w", err)
	}
	return nil
}

func (t *ledgerTx) CountActiveForStudent(ctx context.Context, studentID int64) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations
		 WHERE student_id = $1 AND status = 'active'`,
		studentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count student registrations: %w", err)
	}
	return n, nil
}

func (t *ledgerTx) HasActive(ctx context.Context, studentID, examID int64) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE student_id = $1 AND exam_id = $2 AND status = 'active'
		 )`,
		studentID, examID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check duplicate registration: %w", err)
	}
	return exists, nil
}

func (t *ledgerTx) InsertRegistration(ctx context.Context, studentID, examID int64, code string) (*model.Registration, error) {
	reg := &model.Registration{
		ConfirmationCode: code,
		ExamID:           examID,
		StudentID:        studentID,
		Status:           model.StatusActive,
	}
	err := t.tx.QueryRow(ctx,
		`INSERT INTO registrations (confirmation_code, exam_id, student_id, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		reg.ConfirmationCode, reg.ExamID, reg.StudentID, reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return reg, nil
}

func (t *ledgerTx) GetActiveRegistrationForUpdate(ctx context.Context, registrationID int64) (*model.Registration, error) {
	var reg model.Registration
	err := t.tx.QueryRow(ctx,
		`SELECT id, confirmation_code, exam_id, student_id, status, created_at
		 FROM registrations
		 WHERE id = $1 AND status = 'active'
		 FOR UPDATE`,
		registrationID,
	).Scan(&reg.ID, &reg.ConfirmationCode, &reg.ExamID, &reg.StudentID, &reg.Status, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("lock registration row: %w", err)
	}
	return &reg, nil
}

func (t *ledgerTx) CancelActive(ctx context.Context, studentID, examID int64) (int64, error) {
	tag, err := t.tx.Exec(ctx,
		`UPDATE registrations
		 SET status = 'cancelled'
		 WHERE student_id = $1 AND exam_id = $2 AND status = 'active'`,
		studentID, examID,
	)
	if err != nil {
		return 0, fmt.Errorf("cancel registration: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (t *ledgerTx) UpdateStatus(ctx context.Context, registrationID int64, status model.RegistrationStatus) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE registrations SET status = $2 WHERE id = $1`,
		registrationID, status,
	)
	if err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (t *ledgerTx) UpdateExamReference(ctx context.Context, registrationID, newExamID int64) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE registrations SET exam_id = $2 WHERE id = $1`,
		registrationID, newExamID,
	)
	if err != nil {
		return fmt.Errorf("update exam reference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// ─── Lock-free reads ─────────────────────────────────────────────────────────

// AvailabilitySnapshot returns per-exam seat availability without taking any
// locks. Display only; registration decisions always re-read under lock.
func (r *LedgerRepository) AvailabilitySnapshot(ctx context.Context) ([]model.ExamAvailability, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.capacity,
		        (SELECT COUNT(*) FROM registrations x
		         WHERE x.exam_id = e.id AND x.status = 'active') AS booked
		 FROM exams e
		 ORDER BY e.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("availability snapshot: %w", err)
	}
	defer rows.Close()

	var snapshot []model.ExamAvailability
	for rows.Next() {
		var a model.ExamAvailability
		if err := rows.Scan(&a.ExamID, &a.Capacity, &a.BookedCount); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		a.Remaining = a.Capacity - a.BookedCount
		snapshot = append(snapshot, a)
	}
	return snapshot, rows.Err()
}

// StudentAppointments returns a student's registrations joined with exam and
// location details, ordered by exam date.
func (r *LedgerRepository) StudentAppointments(ctx context.Context, studentID int64) ([]model.Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.confirmation_code, e.id, e.exam_type, e.exam_date, e.exam_time,
		        COALESCE(l.name, ''), r.status
		 FROM registrations r
		 JOIN exams e ON e.id = r.exam_id
		 LEFT JOIN locations l ON l.id = e.location_id
		 WHERE r.student_id = $1
		 ORDER BY e.exam_date, e.exam_time`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appts []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.RegistrationID, &a.ConfirmationCode, &a.ExamID,
			&a.ExamType, &a.ExamDate, &a.ExamTime, &a.LocationName, &a.Status); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

// GetRegistration returns a single registration row by id.
func (r *LedgerRepository) GetRegistration(ctx context.Context, registrationID int64) (*model.Registration, error) {
	var reg model.Registration
	err := r.pool.QueryRow(ctx,
		`SELECT id, confirmation_code, exam_id, student_id, status, created_at
		 FROM registrations WHERE id = $1`,
		registrationID,
	).Scan(&reg.ID, &reg.ConfirmationCode, &reg.ExamID, &reg.StudentID, &reg.Status, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &reg, nil
}

// AllAppointments returns every registration joined with exam and student
// details, ordered by exam date — the faculty print log.
func (r *LedgerRepository) AllAppointments(ctx context.Context) ([]model.LogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.exam_type, e.exam_date, e.exam_time, COALESCE(l.name, ''),
		        u.first_name, u.last_name, r.status
		 FROM registrations r
		 JOIN exams e ON e.id = r.exam_id
		 JOIN users u ON u.id = r.student_id
		 LEFT JOIN locations l ON l.id = e.location_id
		 ORDER BY e.exam_date, e.exam_time`,
	)
	if err != nil {
		return nil, fmt.Errorf("list exam log: %w", err)
	}
	defer rows.Close()
	return scanLogEntries(rows)
}

// SearchAppointments filters the exam log by student name, exam type, or
// exam id substring, case-insensitively.
func (r *LedgerRepository) SearchAppointments(ctx context.Context, term string) ([]model.LogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.exam_type, e.exam_date, e.exam_time, COALESCE(l.name, ''),
		        u.first_name, u.last_name, r.status
		 FROM registrations r
		 JOIN exams e ON e.id = r.exam_id
		 JOIN users u ON u.id = r.student_id
		 LEFT JOIN locations l ON l.id = e.location_id
		 WHERE u.first_name ILIKE $1
		    OR u.last_name ILIKE $1
		    OR e.exam_type ILIKE $1
		    OR e.id::text ILIKE $1
		 ORDER BY e.exam_date, e.exam_time`,
		"%"+term+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("search exam log: %w", err)
	}
	defer rows.Close()
	return scanLogEntries(rows)
}

func scanLogEntries(rows pgx.Rows) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		if err := rows.Scan(&e.ExamID, &e.ExamType, &e.ExamDate, &e.ExamTime,
			&e.LocationName, &e.FirstName, &e.LastName, &e.Status); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
