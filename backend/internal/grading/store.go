package grading

import (
	"context"
	"time"
)

// GradeRecord is the engine's read-only view of a stored grade. Course
// fields are denormalized onto the record by the store so that roll-ups do
// not need a second lookup per grade.
type GradeRecord struct {
	AssessmentType string
	AssessmentName string
	Percentage     float64
	Weight         float64
	IsPublished    bool
	GradedDate     time.Time

	// Denormalized course fields
	CourseID string
	Credits  int32
	Semester string
	Year     int32
}

// CourseRecord is the engine's read-only view of a course a student
// belongs to.
type CourseRecord struct {
	CourseID   string
	CourseCode string
	CourseName string
	Credits    int32
	Semester   string
	Year       int32
	Teacher    string
}

// GradeStore retrieves grade records for aggregation. Implementations must
// honor publishedOnly: when set, unpublished drafts are excluded entirely,
// not merely hidden.
type GradeStore interface {
	GradesByStudent(ctx context.Context, studentID string, publishedOnly bool) ([]GradeRecord, error)
	GradesByCourse(ctx context.Context, studentID, courseID string, publishedOnly bool) ([]GradeRecord, error)
}

// CourseStore retrieves the course roster memberships of a student.
type CourseStore interface {
	CoursesByStudent(ctx context.Context, studentID string) ([]CourseRecord, error)
}

// Service exposes the aggregation engine over injected stores. Each call
// operates on a snapshot of records fetched at the start of the request; no
// state is retained between calls.
type Service struct {
	grades  GradeStore
	courses CourseStore
}

// NewService creates an aggregation service over the given stores.
func NewService(grades GradeStore, courses CourseStore) *Service {
	return &Service{grades: grades, courses: courses}
}
