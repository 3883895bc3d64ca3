package grading

import "context"

// In-memory stores for exercising the aggregation service without a database.

type fakeGradeStore struct {
	byStudent map[string][]GradeRecord
}

func (f *fakeGradeStore) GradesByStudent(_ context.Context, studentID string, publishedOnly bool) ([]GradeRecord, error) {
	return filterPublished(f.byStudent[studentID], publishedOnly), nil
}

func (f *fakeGradeStore) GradesByCourse(_ context.Context, studentID, courseID string, publishedOnly bool) ([]GradeRecord, error) {
	var matched []GradeRecord
	for _, g := range f.byStudent[studentID] {
		if g.CourseID == courseID {
			matched = append(matched, g)
		}
	}
	return filterPublished(matched, publishedOnly), nil
}

func filterPublished(grades []GradeRecord, publishedOnly bool) []GradeRecord {
	if !publishedOnly {
		return grades
	}
	filtered := make([]GradeRecord, 0, len(grades))
	for _, g := range grades {
		if g.IsPublished {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

type fakeCourseStore struct {
	byStudent map[string][]CourseRecord
}

func (f *fakeCourseStore) CoursesByStudent(_ context.Context, studentID string) ([]CourseRecord, error) {
	return f.byStudent[studentID], nil
}

func newTestService(grades map[string][]GradeRecord, courses map[string][]CourseRecord) *Service {
	return NewService(
		&fakeGradeStore{byStudent: grades},
		&fakeCourseStore{byStudent: courses},
	)
}
