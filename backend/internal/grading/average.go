package grading

import "context"

// CourseAverage computes the weighted average percentage across a set of
// grades. Unpublished grades are filtered out even if the caller already
// did so. Returns nil when no published grades remain or the total weight
// is zero; the computation is order-insensitive.
func CourseAverage(grades []GradeRecord) *float64 {
	var totalWeightedScore, totalWeight float64

	for _, g := range grades {
		if !g.IsPublished {
			continue
		}
		totalWeightedScore += g.Percentage * g.Weight
		totalWeight += g.Weight
	}

	if totalWeight == 0 {
		return nil
	}

	average := Round2(totalWeightedScore / totalWeight)
	return &average
}

// CourseSummary pairs a course average with the letter grade derived by
// reapplying the grade band table to the aggregate percentage.
type CourseSummary struct {
	Average     *float64 `json:"average"`
	LetterGrade string   `json:"letter_grade,omitempty"`
}

// SummarizeCourse builds a CourseSummary from a set of grades.
func SummarizeCourse(grades []GradeRecord) CourseSummary {
	average := CourseAverage(grades)
	summary := CourseSummary{Average: average}
	if average != nil {
		summary.LetterGrade = LetterFor(*average)
	}
	return summary
}

// ComputeCourseAverage returns the weighted average percentage of a
// student's published grades within one course, or nil when the student has
// no published grades there. An empty result is not an error.
func (s *Service) ComputeCourseAverage(ctx context.Context, studentID, courseID string) (*float64, error) {
	grades, err := s.grades.GradesByCourse(ctx, studentID, courseID, true)
	if err != nil {
		return nil, err
	}
	return CourseAverage(grades), nil
}
