package model

import "errors"

// Failure taxonomy for the registration controller. Handlers map these to
// HTTP statuses with errors.Is; ErrTransient is the only retryable class.
var (
	// ErrNotFound is returned when a requested resource does not exist or
	// does not belong to the caller.
	ErrNotFound = errors.New("not found")

	// ErrLimitExceeded is returned when a student already holds the maximum
	// number of active registrations.
	ErrLimitExceeded = errors.New("active registration limit reached")

	// ErrDuplicateRegistration is returned when the student already has an
	// active registration for the same exam session.
	ErrDuplicateRegistration = errors.New("already registered for this exam")

	// ErrCapacityExceeded is returned when an exam session has no remaining
	// seats.
	ErrCapacityExceeded = errors.New("exam session is fully booked")

	// ErrTransient wraps lock timeouts, deadlocks, and connectivity failures.
	// Safe to retry with backoff.
	ErrTransient = errors.New("transient storage failure")

	// ErrInvalidInput is returned for malformed identifiers or payloads.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyExists is returned when a unique field (email, NSHE id,
	// employee id) is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
