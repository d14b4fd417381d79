package handler

import (
	"net/http"

	"github.com/csn-group4/exam-registration/internal/model"
	"github.com/csn-group4/exam-registration/internal/service"
)

// CatalogHandler holds the catalog endpoints: exams, locations,
// departments, and majors. Writes are faculty-gated by the router.
type CatalogHandler struct {
	svc *service.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// CreateExam handles POST /exams
func (h *CatalogHandler) CreateExam(w http.ResponseWriter, r *http.Request) {
	var req model.CreateExamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	exam, err := h.svc.CreateExam(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exam)
}

// ListExams handles GET /exams
// Returns upcoming exam sessions with live booked counts.
func (h *CatalogHandler) ListExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.svc.ListExams(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if exams == nil {
		exams = []model.ExamSummary{}
	}
	writeJSON(w, http.StatusOK, exams)
}

// GetExam handles GET /exams/{id}
func (h *CatalogHandler) GetExam(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exam id")
		return
	}

	exam, err := h.svc.GetExam(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

// CreateLocation handles POST /locations
func (h *CatalogHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	location, err := h.svc.CreateLocation(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, location)
}

// ListLocations handles GET /locations
func (h *CatalogHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.svc.ListLocations(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	writeJSON(w, http.StatusOK, locations)
}

// CreateDepartment handles POST /departments
func (h *CatalogHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDepartmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	department, err := h.svc.CreateDepartment(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, department)
}

// ListDepartments handles GET /departments
func (h *CatalogHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.svc.ListDepartments(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if departments == nil {
		departments = []model.Department{}
	}
	writeJSON(w, http.StatusOK, departments)
}

// CreateMajor handles POST /majors
func (h *CatalogHandler) CreateMajor(w http.ResponseWriter, r *http.Request) {
	var req model.CreateMajorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	major, err := h.svc.CreateMajor(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, major)
}

// ListMajors handles GET /majors
func (h *CatalogHandler) ListMajors(w http.ResponseWriter, r *http.Request) {
	majors, err := h.svc.ListMajors(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if majors == nil {
		majors = []model.Major{}
	}
	writeJSON(w, http.StatusOK, majors)
}
