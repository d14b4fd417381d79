package service

import (
	"context"
	"strings"
	"time"

	"github.com/csn-group4/exam-registration/internal/model"
)

// ExamStore is the catalog persistence the service needs for exam sessions.
type ExamStore interface {
	Create(ctx context.Context, examType string, examDate time.Time, examTime string, locationID int64, capacity int) (*model.ExamSession, error)
	ListUpcoming(ctx context.Context) ([]model.ExamSummary, error)
	GetByID(ctx context.Context, id int64) (*model.ExamSession, error)
}

// CatalogStore is the persistence for locations, departments, and majors.
type CatalogStore interface {
	CreateLocation(ctx context.Context, name, room string) (*model.Location, error)
	ListLocations(ctx context.Context) ([]model.Location, error)
	CreateDepartment(ctx context.Context, name string) (*model.Department, error)
	ListDepartments(ctx context.Context) ([]model.Department, error)
	CreateMajor(ctx context.Context, name string, departmentID int64) (*model.Major, error)
	ListMajors(ctx context.Context) ([]model.Major, error)
}

// CatalogService orchestrates the admin-managed catalog of exams,
// locations, departments, and majors. The registration core reads this
// catalog but never writes it.
type CatalogService struct {
	exams   ExamStore
	catalog CatalogStore
}

// NewCatalogService constructs a CatalogService with its dependencies.
func NewCatalogService(exams ExamStore, catalog CatalogStore) *CatalogService {
	return &CatalogService{exams: exams, catalog: catalog}
}

// CreateExam validates and creates an exam session. Capacity is fixed at
// creation and must be positive.
func (s *CatalogService) CreateExam(ctx context.Context, req model.CreateExamRequest) (*model.ExamSession, error) {
	req.ExamType = strings.TrimSpace(req.ExamType)
	if req.ExamType == "" {
		return nil, model.ErrInvalidInput
	}
	if req.Capacity <= 0 || req.Capacity > 500 {
		return nil, model.ErrInvalidInput
	}
	if req.LocationID <= 0 {
		return nil, model.ErrInvalidInput
	}
	examDate, err := time.Parse("2006-01-02", req.ExamDate)
	if err != nil {
		return nil, model.ErrInvalidInput
	}
	return s.exams.Create(ctx, req.ExamType, examDate, req.ExamTime, req.LocationID, req.Capacity)
}

// ListExams returns upcoming exam sessions with locations and booked counts.
// Full sessions are hidden from the scheduling page.
func (s *CatalogService) ListExams(ctx context.Context) ([]model.ExamSummary, error) {
	exams, err := s.exams.ListUpcoming(ctx)
	if err != nil {
		return nil, err
	}
	open := make([]model.ExamSummary, 0, len(exams))
	for _, e := range exams {
		if !e.IsFull() {
			open = append(open, e)
		}
	}
	return open, nil
}

// GetExam returns a single exam session by id.
func (s *CatalogService) GetExam(ctx context.Context, id int64) (*model.ExamSession, error) {
	if id <= 0 {
		return nil, model.ErrInvalidInput
	}
	return s.exams.GetByID(ctx, id)
}

// CreateLocation adds a testing-center location.
func (s *CatalogService) CreateLocation(ctx context.Context, req model.CreateLocationRequest) (*model.Location, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, model.ErrInvalidInput
	}
	return s.catalog.CreateLocation(ctx, req.Name, strings.TrimSpace(req.Room))
}

// ListLocations returns all testing-center locations.
func (s *CatalogService) ListLocations(ctx context.Context) ([]model.Location, error) {
	return s.catalog.ListLocations(ctx)
}

// CreateDepartment adds a department.
func (s *CatalogService) CreateDepartment(ctx context.Context, req model.CreateDepartmentRequest) (*model.Department, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, model.ErrInvalidInput
	}
	return s.catalog.CreateDepartment(ctx, req.Name)
}

// ListDepartments returns all departments.
func (s *CatalogService) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return s.catalog.ListDepartments(ctx)
}

// CreateMajor adds a major under a department.
func (s *CatalogService) CreateMajor(ctx context.Context, req model.CreateMajorRequest) (*model.Major, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.DepartmentID <= 0 {
		return nil, model.ErrInvalidInput
	}
	return s.catalog.CreateMajor(ctx, req.Name, req.DepartmentID)
}

// ListMajors returns all majors.
func (s *CatalogService) ListMajors(ctx context.Context) ([]model.Major, error) {
	return s.catalog.ListMajors(ctx)
}
