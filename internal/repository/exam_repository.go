package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/csn-group4/exam-registration/internal/model"
)

// ExamRepository handles catalog persistence for exam sessions. Capacity is
// fixed here at creation; the registration core only ever reads it.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// Create inserts a new exam session.
func (r *ExamRepository) Create(ctx context.Context, examType string, examDate time.Time, examTime string, locationID int64, capacity int) (*model.ExamSession, error) {
	e := &model.ExamSession{
		ExamType:   examType,
		ExamDate:   examDate,
		ExamTime:   examTime,
		LocationID: locationID,
		Capacity:   capacity,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO exams (exam_type, exam_date, exam_time, location_id, capacity)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.ExamType, e.ExamDate, e.ExamTime, e.LocationID, e.Capacity,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert exam: %w", err)
	}
	return e, nil
}

// ListUpcoming returns exam sessions from today onward with their location
// and live booked count, ordered by date and time.
func (r *ExamRepository) ListUpcoming(ctx context.Context) ([]model.ExamSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.exam_type, e.exam_date, e.exam_time,
		        COALESCE(l.name, ''), e.capacity,
		        (SELECT COUNT(*) FROM registrations x
		         WHERE x.exam_id = e.id AND x.status = 'active') AS booked
		 FROM exams e
		 LEFT JOIN locations l ON l.id = e.location_id
		 WHERE e.exam_date >= CURRENT_DATE
		 ORDER BY e.exam_date, e.exam_time`,
	)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()

	var exams []model.ExamSummary
	for rows.Next() {
		var e model.ExamSummary
		if err := rows.Scan(&e.ID, &e.ExamType, &e.ExamDate, &e.ExamTime,
			&e.LocationName, &e.Capacity, &e.BookedCount); err != nil {
			return nil, fmt.Errorf("scan exam: %w", err)
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// GetByID returns a single exam session or model.ErrNotFound.
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*model.ExamSession, error) {
	var e model.ExamSession
	err := r.pool.QueryRow(ctx,
		`SELECT id, exam_type, exam_date, exam_time, location_id, capacity, created_at
		 FROM exams WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.ExamType, &e.ExamDate, &e.ExamTime, &e.LocationID, &e.Capacity, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return &e, nil
}
