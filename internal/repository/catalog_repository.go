package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csn-group4/exam-registration/internal/model"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// CatalogRepository handles locations, departments, and majors.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// CreateLocation inserts a testing-center location.
func (r *CatalogRepository) CreateLocation(ctx context.Context, name, room string) (*model.Location, error) {
	l := &model.Location{Name: name, Room: room}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO locations (name, room) VALUES ($1, $2) RETURNING id`,
		l.Name, l.Room,
	).Scan(&l.ID)
	if err != nil {
		return nil, fmt.Errorf("insert location: %w", err)
	}
	return l, nil
}

// ListLocations returns all locations ordered by name.
func (r *CatalogRepository) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, room FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Room); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// CreateDepartment inserts a department. Names are unique.
func (r *CatalogRepository) CreateDepartment(ctx context.Context, name string) (*model.Department, error) {
	d := &model.Department{Name: name}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO departments (name) VALUES ($1) RETURNING id`,
		d.Name,
	).Scan(&d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert department: %w", err)
	}
	return d, nil
}

// ListDepartments returns all departments ordered by name.
func (r *CatalogRepository) ListDepartments(ctx context.Context) ([]model.Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// CreateMajor inserts a major under a department. Names are unique.
func (r *CatalogRepository) CreateMajor(ctx context.Context, name string, departmentID int64) (*model.Major, error) {
	m := &model.Major{Name: name, DepartmentID: departmentID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO majors (name, department_id) VALUES ($1, $2) RETURNING id`,
		m.Name, m.DepartmentID,
	).Scan(&m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert major: %w", err)
	}
	return m, nil
}

// ListMajors returns all majors ordered by name.
func (r *CatalogRepository) ListMajors(ctx context.Context) ([]model.Major, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, department_id FROM majors ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list majors: %w", err)
	}
	defer rows.Close()

	var majors []model.Major
	for rows.Next() {
		var m model.Major
		if err := rows.Scan(&m.ID, &m.Name, &m.DepartmentID); err != nil {
			return nil, fmt.Errorf("scan major: %w", err)
		}
		majors = append(majors, m)
	}
	return majors, rows.Err()
}
