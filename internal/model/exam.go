// Package model defines the core domain types for the exam registration system.
package model

import "time"

// ExamSession is a single proctored exam sitting with a fixed seat capacity.
type ExamSession struct {
	ID         int64     `json:"id"`
	ExamType   string    `json:"exam_type"`
	ExamDate   time.Time `json:"exam_date"`
	ExamTime   string    `json:"exam_time"`
	LocationID int64     `json:"location_id"`
	Capacity   int       `json:"capacity"`
	CreatedAt  time.Time `json:"created_at"`
}

// ExamSummary is an exam session joined with its location and live booking
// count, as shown on the student scheduling page.
type ExamSummary struct {
	ID           int64     `json:"id"`
	ExamType     string    `json:"exam_type"`
	ExamDate     time.Time `json:"exam_date"`
	ExamTime     string    `json:"exam_time"`
	LocationName string    `json:"location_name"`
	Capacity     int       `json:"capacity"`
	BookedCount  int       `json:"booked_count"`
}

// Remaining returns the number of available seats.
func (e *ExamSummary) Remaining() int {
	return e.Capacity - e.BookedCount
}

// IsFull returns true when no seats remain.
func (e *ExamSummary) IsFull() bool {
	return e.Remaining() <= 0
}

// ExamAvailability is a lock-free availability snapshot entry. It is for
// display only and never authorizes a write.
type ExamAvailability struct {
	ExamID      int64 `json:"exam_id"`
	Capacity    int   `json:"capacity"`
	BookedCount int   `json:"booked_count"`
	Remaining   int   `json:"remaining"`
}
