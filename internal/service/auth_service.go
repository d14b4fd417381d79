package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/csn-group4/exam-registration/internal/model"
)

// Account format rules. Students sign in with their NSHE id; the id must
// match the local part of their college email.
var (
	nsheRE         = regexp.MustCompile(`^\d{10}$`)
	studentEmailRE = regexp.MustCompile(`(?i)^(\d{10})@student\.csn\.edu$`)
	facultyEmailRE = regexp.MustCompile(`(?i)^[A-Za-z]+(?:\.[A-Za-z]+)*@csn\.edu$`)
)

// Claims is the JWT payload for an authenticated session.
type Claims struct {
	UserID int64      `json:"uid"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserStore is the account persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthService handles signup, login, and bearer-token verification.
type AuthService struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore, secret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Signup validates the role-dependent account rules and creates the user.
// Students authenticate with their NSHE id as the initial password; faculty
// choose a password at signup.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))

	u := &model.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Role:      role,
	}
	if u.FirstName == "" || u.LastName == "" || u.Phone == "" {
		return nil, model.ErrInvalidInput
	}

	var password string
	switch role {
	case model.RoleStudent:
		m := studentEmailRE.FindStringSubmatch(email)
		if m == nil {
			return nil, fmt.Errorf("%w: student email must be nsheid@student.csn.edu", model.ErrInvalidInput)
		}
		nshe := strings.TrimSpace(req.NSHEID)
		if !nsheRE.MatchString(nshe) {
			return nil, fmt.Errorf("%w: NSHE id must be 10 digits", model.ErrInvalidInput)
		}
		if nshe != m[1] {
			return nil, fmt.Errorf("%w: NSHE id must match the email NSHE id", model.ErrInvalidInput)
		}
		if req.MajorID <= 0 {
			return nil, fmt.Errorf("%w: major is required", model.ErrInvalidInput)
		}
		u.NSHEID = &nshe
		u.MajorID = &req.MajorID
		password = nshe

	case model.RoleFaculty:
		if !facultyEmailRE.MatchString(email) {
			return nil, fmt.Errorf("%w: faculty email must be first.last@csn.edu", model.ErrInvalidInput)
		}
		employeeID := strings.TrimSpace(req.EmployeeID)
		if employeeID == "" {
			return nil, fmt.Errorf("%w: employee id is required", model.ErrInvalidInput)
		}
		if req.DepartmentID <= 0 {
			return nil, fmt.Errorf("%w: department is required", model.ErrInvalidInput)
		}
		if len(req.Password) < 8 {
			return nil, fmt.Errorf("%w: password must be at least 8 characters", model.ErrInvalidInput)
		}
		u.EmployeeID = &employeeID
		u.DepartmentID = &req.DepartmentID
		password = req.Password

	default:
		return nil, fmt.Errorf("%w: role must be student or faculty", model.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.Int64("user_id", u.ID),
		zap.String("role", string(u.Role)))
	return u, nil
}

// Login verifies credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Same answer for unknown email and wrong password.
		return "", model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ParseToken verifies a bearer token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
