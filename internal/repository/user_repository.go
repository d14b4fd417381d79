package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csn-group4/exam-registration/internal/model"
)

// UserRepository handles account persistence for the auth layer.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new account. Unique violations on email, NSHE id, or
// employee id surface as model.ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email, phone, role, password_hash,
		                    nshe_id, major_id, employee_id, department_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		u.FirstName, u.LastName, u.Email, u.Phone, u.Role, u.PasswordHash,
		u.NSHEID, u.MajorID, u.EmployeeID, u.DepartmentID,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail returns an account by its (lowercased) email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx,
		`SELECT id, first_name, last_name, email, phone, role, password_hash,
		        nshe_id, major_id, employee_id, department_id, created_at
		 FROM users WHERE email = $1`,
		email)
}

// GetByID returns an account by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx,
		`SELECT id, first_name, last_name, email, phone, role, password_hash,
		        nshe_id, major_id, employee_id, department_id, created_at
		 FROM users WHERE id = $1`,
		id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Role, &u.PasswordHash,
		&u.NSHEID, &u.MajorID, &u.EmployeeID, &u.DepartmentID, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
