package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/csn-group4/exam-registration/internal/model"
	"github.com/csn-group4/exam-registration/internal/service"
)

// RegistrationHandler holds the student-facing booking endpoints.
type RegistrationHandler struct {
	svc    *service.RegistrationService
	logger *zap.Logger
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc *service.RegistrationService, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{svc: svc, logger: logger}
}

// transientBackoff bounds in-handler retries of lock-timeout and deadlock
// failures. The controller itself never retries.
func transientBackoff() retry.Backoff {
	return retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
}

// Register handles POST /exams/{id}/register
// Books a seat for the authenticated student.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	examID, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exam id")
		return
	}

	var reg *model.Registration
	err = retry.Do(r.Context(), transientBackoff(), func(ctx context.Context) error {
		var regErr error
		reg, regErr = h.svc.Register(ctx, claims.UserID, examID)
		if errors.Is(regErr, model.ErrTransient) {
			return retry.RetryableError(regErr)
		}
		return regErr
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reg)
}

// Cancel handles POST /exams/{id}/cancel
// Idempotent: cancelling with no active booking returns changed = 0.
func (h *RegistrationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	examID, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exam id")
		return
	}

	changed, err := h.svc.Cancel(r.Context(), claims.UserID, examID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"changed": changed})
}

// Reschedule handles POST /registrations/{id}/reschedule
// Moves the registration to another exam session in place.
func (h *RegistrationHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	registrationID, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid registration id")
		return
	}

	var req model.RescheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var moved *model.Registration
	err = retry.Do(r.Context(), transientBackoff(), func(ctx context.Context) error {
		var rsErr error
		moved, rsErr = h.svc.Reschedule(ctx, claims.UserID, registrationID, req.NewExamID)
		if errors.Is(rsErr, model.ErrTransient) {
			return retry.RetryableError(rsErr)
		}
		return rsErr
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The row keeps its id, code, and active status; only exam_id moved.
	writeJSON(w, http.StatusOK, moved)
}

// Appointments handles GET /students/me/appointments
func (h *RegistrationHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	appts, err := h.svc.Appointments(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

// Confirmation handles GET /registrations/{id}
// Returns the booking confirmation for the authenticated student.
func (h *RegistrationHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	registrationID, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid registration id")
		return
	}

	reg, err := h.svc.Confirmation(r.Context(), claims.UserID, registrationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

// Availability handles GET /exams/availability
// Lock-free snapshot for display; stale by the time it is rendered.
func (h *RegistrationHandler) Availability(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.Availability(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if snapshot == nil {
		snapshot = []model.ExamAvailability{}
	}
	writeJSON(w, http.StatusOK, snapshot)
}
