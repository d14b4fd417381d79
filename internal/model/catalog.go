package model

// Location is a testing-center room where exam sessions are held.
type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Room string `json:"room"`
}

// Department groups majors and faculty.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Major is a student's declared program, owned by a department.
type Major struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DepartmentID int64  `json:"department_id"`
}
