package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/csn-group4/exam-registration/internal/model"
)

type fakeExamStore struct {
	created  []*model.ExamSession
	upcoming []model.ExamSummary
}

func (f *fakeExamStore) Create(ctx context.Context, examType string, examDate time.Time, examTime string, locationID int64, capacity int) (*model.ExamSession, error) {
	e := &model.ExamSession{
		ID:         int64(len(f.created) + 1),
		ExamType:   examType,
		ExamDate:   examDate,
		ExamTime:   examTime,
		LocationID: locationID,
		Capacity:   capacity,
	}
	f.created = append(f.created, e)
	return e, nil
}

func (f *fakeExamStore) ListUpcoming(ctx context.Context) ([]model.ExamSummary, error) {
	return f.upcoming, nil
}

func (f *fakeExamStore) GetByID(ctx context.Context, id int64) (*model.ExamSession, error) {
	for _, e := range f.created {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, model.ErrNotFound
}

type fakeCatalogStore struct {
	departments []*model.Department
}

func (f *fakeCatalogStore) CreateLocation(ctx context.Context, name, room string) (*model.Location, error) {
	return &model.Location{ID: 1, Name: name, Room: room}, nil
}

func (f *fakeCatalogStore) ListLocations(ctx context.Context) ([]model.Location, error) {
	return nil, nil
}

func (f *fakeCatalogStore) CreateDepartment(ctx context.Context, name string) (*model.Department, error) {
	for _, d := range f.departments {
		if d.Name == name {
			return nil, model.ErrAlreadyExists
		}
	}
	d := &model.Department{ID: int64(len(f.departments) + 1), Name: name}
	f.departments = append(f.departments, d)
	return d, nil
}

func (f *fakeCatalogStore) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return nil, nil
}

func (f *fakeCatalogStore) CreateMajor(ctx context.Context, name string, departmentID int64) (*model.Major, error) {
	return &model.Major{ID: 1, Name: name, DepartmentID: departmentID}, nil
}

func (f *fakeCatalogStore) ListMajors(ctx context.Context) ([]model.Major, error) {
	return nil, nil
}

func validExamRequest() model.CreateExamRequest {
	return model.CreateExamRequest{
		ExamType:   "Accuplacer Math",
		ExamDate:   "2026-09-15",
		ExamTime:   "09:00",
		LocationID: 1,
		Capacity:   20,
	}
}

func TestCreateExam(t *testing.T) {
	svc := NewCatalogService(&fakeExamStore{}, &fakeCatalogStore{})

	exam, err := svc.CreateExam(context.Background(), validExamRequest())
	require.NoError(t, err)
	require.Equal(t, "Accuplacer Math", exam.ExamType)
	require.Equal(t, 20, exam.Capacity)
	require.Equal(t, "2026-09-15", exam.ExamDate.Format("2006-01-02"))
}

func TestCreateExamRejectsNonPositiveCapacity(t *testing.T) {
	svc := NewCatalogService(&fakeExamStore{}, &fakeCatalogStore{})

	for _, capacity := range []int{0, -5, 501} {
		req := validExamRequest()
		req.Capacity = capacity
		_, err := svc.CreateExam(context.Background(), req)
		require.ErrorIs(t, err, model.ErrInvalidInput, "capacity %d", capacity)
	}
}

func TestCreateExamRejectsBadDate(t *testing.T) {
	svc := NewCatalogService(&fakeExamStore{}, &fakeCatalogStore{})

	req := validExamRequest()
	req.ExamDate = "09/15/2026"
	_, err := svc.CreateExam(context.Background(), req)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestCreateExamRejectsBlankType(t *testing.T) {
	svc := NewCatalogService(&fakeExamStore{}, &fakeCatalogStore{})

	req := validExamRequest()
	req.ExamType = "   "
	_, err := svc.CreateExam(context.Background(), req)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestListExamsHidesFullSessions(t *testing.T) {
	store := &fakeExamStore{upcoming: []model.ExamSummary{
		{ID: 1, ExamType: "Accuplacer Math", Capacity: 20, BookedCount: 20},
		{ID: 2, ExamType: "Accuplacer English", Capacity: 20, BookedCount: 19},
		{ID: 3, ExamType: "HESI A2", Capacity: 20, BookedCount: 0},
	}}
	svc := NewCatalogService(store, &fakeCatalogStore{})

	exams, err := svc.ListExams(context.Background())
	require.NoError(t, err)
	require.Len(t, exams, 2)
	require.Equal(t, int64(2), exams[0].ID)
	require.Equal(t, int64(3), exams[1].ID)
}

func TestCreateDepartmentDuplicate(t *testing.T) {
	svc := NewCatalogService(&fakeExamStore{}, &fakeCatalogStore{})

	_, err := svc.CreateDepartment(context.Background(), model.CreateDepartmentRequest{Name: "Mathematics"})
	require.NoError(t, err)

	_, err = svc.CreateDepartment(context.Background(), model.CreateDepartmentRequest{Name: "Mathematics"})
	require.ErrorIs(t, err, model.ErrAlreadyExists)
}
