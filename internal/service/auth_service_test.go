package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/csn-group4/exam-registration/internal/model"
)

type fakeUserStore struct {
	byEmail map[string]*model.User
	nextID  int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*model.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, u *model.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return model.ErrAlreadyExists
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, model.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, model.ErrNotFound
}

func newTestAuth(store UserStore) *AuthService {
	return NewAuthService(store, "test-secret", time.Hour, zap.NewNop())
}

func studentSignup() model.SignupRequest {
	return model.SignupRequest{
		Role:      "student",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "1234567890@student.csn.edu",
		Phone:     "702-555-0100",
		NSHEID:    "1234567890",
		MajorID:   1,
	}
}

func TestSignupStudent(t *testing.T) {
	auth := newTestAuth(newFakeUserStore())

	user, err := auth.Signup(context.Background(), studentSignup())
	require.NoError(t, err)
	require.Equal(t, model.RoleStudent, user.Role)
	require.NotNil(t, user.NSHEID)
	require.Equal(t, "1234567890", *user.NSHEID)
	require.NotEmpty(t, user.PasswordHash)
}

func TestSignupStudentEmailMismatch(t *testing.T) {
	auth := newTestAuth(newFakeUserStore())

	req := studentSignup()
	req.NSHEID = "0987654321" // does not match the email local part
	_, err := auth.Signup(context.Background(), req)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSignupStudentBadEmailDomain(t *testing.T) {
	auth := newTestAuth(newFakeUserStore())

	req := studentSignup()
	req.Email = "1234567890@gmail.com"
	_, err := auth.Signup(context.Background(), req)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSignupStudentMissingMajor(t *testing.T) {
	auth := newTestAuth(newFakeUserStore())

	req := studentSignup()
	req.MajorID = 0
	_, err := auth.Signup(context.Background(), req)
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSignupFaculty(t *testing.T) {
	auth := newTestAuth(newFakeUserStore())

	user, err := auth.Signup(context.Background(), model.SignupRequest{
		Role:         "faculty",
		FirstName:    "Grace",
		LastName:     "Hopper",
		Email:        "grace.hopper@csn.edu",
		Phone:        "702-555-0101",
		EmployeeID:   "EMP-4411",
		DepartmentID: 2,
		Password:     "correct horse battery",
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleFaculty, user.Role)
	require.NotNil(t, user.EmployeeID)
}

func TestSignupFacultyBadEmail(t *testing.T) {
	auth := newTestAuth(newFakeUserStore())

	_, err := auth.Signup(context.Background(), model.SignupRequest{
		Role:         "faculty",
		FirstName:    "Grace",
		LastName:     "Hopper",
		Email:        "grace@student.csn.edu",
		Phone:        "702-555-0101",
		EmployeeID:   "EMP-4411",
		DepartmentID: 2,
		Password:     "correct horse battery",
	})
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSignupDuplicateEmail(t *testing.T) {
	auth := newTestAuth(newFakeUserStore())

	_, err := auth.Signup(context.Background(), studentSignup())
	require.NoError(t, err)

	_, err = auth.Signup(context.Background(), studentSignup())
	require.ErrorIs(t, err, model.ErrAlreadyExists)
}

func TestLoginAndParseToken(t *testing.T) {
	store := newFakeUserStore()
	auth := newTestAuth(store)

	user, err := auth.Signup(context.Background(), studentSignup())
	require.NoError(t, err)

	// Students sign in with their NSHE id as the initial password.
	token, err := auth.Login(context.Background(), user.Email, "1234567890")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, model.RoleStudent, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	auth := newTestAuth(newFakeUserStore())

	user, err := auth.Signup(context.Background(), studentSignup())
	require.NoError(t, err)

	_, err = auth.Login(context.Background(), user.Email, "wrong")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	auth := newTestAuth(newFakeUserStore())

	_, err := auth.Login(context.Background(), "nobody@student.csn.edu", "whatever")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	auth := newTestAuth(newFakeUserStore())
	other := NewAuthService(newFakeUserStore(), "other-secret", time.Hour, zap.NewNop())

	user, err := auth.Signup(context.Background(), studentSignup())
	require.NoError(t, err)

	token, err := auth.Login(context.Background(), user.Email, "1234567890")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.Error(t, err)
}
