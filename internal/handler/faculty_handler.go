package handler

import (
	"net/http"

	"github.com/csn-group4/exam-registration/internal/model"
	"github.com/csn-group4/exam-registration/internal/service"
)

// FacultyHandler holds the faculty-facing registration log endpoints.
type FacultyHandler struct {
	svc *service.RegistrationService
}

// NewFacultyHandler constructs a FacultyHandler.
func NewFacultyHandler(svc *service.RegistrationService) *FacultyHandler {
	return &FacultyHandler{svc: svc}
}

// ExamLog handles GET /faculty/exam-log
// Every registration with exam and student details, for viewing or printing.
func (h *FacultyHandler) ExamLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ExamLog(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Search handles GET /faculty/search?q=term
// Filters the log by student name, exam type, or exam id.
func (h *FacultyHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	entries, err := h.svc.SearchLog(r.Context(), term)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
