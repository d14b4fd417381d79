package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/csn-group4/exam-registration/internal/model"
	"github.com/csn-group4/exam-registration/internal/service"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{model.ErrNotFound, http.StatusNotFound},
		{model.ErrInvalidInput, http.StatusBadRequest},
		{model.ErrInvalidCredentials, http.StatusUnauthorized},
		{model.ErrLimitExceeded, http.StatusConflict},
		{model.ErrDuplicateRegistration, http.StatusConflict},
		{model.ErrCapacityExceeded, http.StatusConflict},
		{model.ErrAlreadyExists, http.StatusConflict},
		{model.ErrTransient, http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", model.ErrCapacityExceeded), http.StatusConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, statusForError(tc.err), "error %v", tc.err)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	body := strings.NewReader(`{"new_exam_id": 2, "bogus": true}`)
	r := httptest.NewRequest(http.MethodPost, "/", body)

	var req model.RescheduleRequest
	require.Error(t, decodeJSON(r, &req))
}

func TestDecodeJSONValidates(t *testing.T) {
	body := strings.NewReader(`{"new_exam_id": 0}`)
	r := httptest.NewRequest(http.MethodPost, "/", body)

	var req model.RescheduleRequest
	require.Error(t, decodeJSON(r, &req))
}

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	HealthCheck(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"ok"`)
}

const testSecret = "test-secret"

// mintToken signs a token the way AuthService.Login does, without the
// password round trip.
func mintToken(t *testing.T, userID int64, role model.Role) string {
	t.Helper()
	claims := service.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newTestAuth() *service.AuthService {
	// ParseToken never touches the user store.
	return service.NewAuthService(nil, testSecret, time.Hour, zap.NewNop())
}

func TestAuthenticateMiddleware(t *testing.T) {
	auth := newTestAuth()
	token := mintToken(t, 7, model.RoleStudent)

	var gotClaims *service.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = claimsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := Authenticate(auth)(next)

	// Missing token.
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not.a.token")
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotClaims)
	require.Equal(t, int64(7), gotClaims.UserID)
	require.Equal(t, model.RoleStudent, gotClaims.Role)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	auth := newTestAuth()
	claims := service.Claims{
		UserID: 7,
		Role:   model.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	h := Authenticate(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	auth := newTestAuth()
	token := mintToken(t, 7, model.RoleStudent)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Student token on a faculty route.
	h := Authenticate(auth)(RequireRole(model.RoleFaculty)(next))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Student token on a student route.
	h = Authenticate(auth)(RequireRole(model.RoleStudent)(next))
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
}
